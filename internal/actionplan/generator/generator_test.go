package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/actionplan/models"
	"storepulse/internal/actionplan/store"
	evalmodels "storepulse/internal/evaluation/models"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/platform/config"
	"storepulse/internal/platform/logger"
	"storepulse/internal/scoring"
	id "storepulse/pkg/domain"
)

func float64Ptr(v float64) *float64 { return &v }

type fixture struct {
	gen   *Generator
	plans *store.InMemoryStore
	evals *evalstore.InMemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	plans := store.NewInMemoryStore()
	evals := evalstore.NewInMemoryStore()
	return &fixture{
		gen:   New(plans, evals, config.DefaultPolicy(), logger.New(), nil, nil),
		plans: plans,
		evals: evals,
	}
}

func evalWith(storeID id.StoreID, wave string, at time.Time, sections []evalmodels.SectionScore, failed []scoring.FailedItem) *evalmodels.WaveEvaluation {
	return &evalmodels.WaveEvaluation{
		ID:           id.NewEvaluationID(),
		StoreID:      storeID,
		Wave:         wave,
		OverallScore: 85,
		Sections:     sections,
		FailedItems:  failed,
		IngestedAt:   at,
	}
}

func TestGenerate_OpensPlanBelowTarget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storeID := id.NewStoreID()
	waveEnd := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	eval := evalWith(storeID, "Wave 2", waveEnd,
		[]evalmodels.SectionScore{
			{Letter: "A", Name: "Service Quality", Score: float64Ptr(62.5)},
			{Letter: "B", Name: "Cleanliness", Score: float64Ptr(95)},
		},
		[]scoring.FailedItem{
			{Section: "A", SectionName: "Service Quality", Code: 101, Label: "Greets the customer"},
			{Section: "A", SectionName: "Service Quality", Code: 102, Label: "Offers the promo of the month"},
		},
	)
	require.NoError(t, f.evals.Upsert(ctx, eval))

	report, err := f.gen.Generate(ctx, eval, waveEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Skipped)

	plan, err := f.plans.FindByStoreWaveSection(ctx, storeID, "Wave 2", "A")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequiresAction, plan.Status)
	assert.Equal(t, 62.5, plan.SectionScore)
	assert.Equal(t, waveEnd.AddDate(0, 0, 14), plan.DueDate)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, models.TagJustFailed, plan.Items[0].Recurrence)

	// Section B met the target, no plan.
	_, err = f.plans.FindByStoreWaveSection(ctx, storeID, "Wave 2", "B")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGenerate_SkipsPerfectAndUnscoredSections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storeID := id.NewStoreID()
	waveEnd := time.Now()

	eval := evalWith(storeID, "Wave 1", waveEnd,
		[]evalmodels.SectionScore{
			{Letter: "A", Name: "Service Quality", Score: float64Ptr(100)},
			{Letter: "B", Name: "Cleanliness", Score: nil},
		}, nil)
	require.NoError(t, f.evals.Upsert(ctx, eval))

	report, err := f.gen.Generate(ctx, eval, waveEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
}

func TestGenerate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storeID := id.NewStoreID()
	waveEnd := time.Now()

	eval := evalWith(storeID, "Wave 2", waveEnd,
		[]evalmodels.SectionScore{{Letter: "A", Name: "Service Quality", Score: float64Ptr(70)}}, nil)
	require.NoError(t, f.evals.Upsert(ctx, eval))

	first, err := f.gen.Generate(ctx, eval, waveEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	// The store submitted in the meantime; regeneration must not reset it.
	plan, err := f.plans.FindByStoreWaveSection(ctx, storeID, "Wave 2", "A")
	require.NoError(t, err)
	plan.Status = models.StatusWaitingForApproval
	require.NoError(t, f.plans.Update(ctx, plan, models.StatusRequiresAction))

	second, err := f.gen.Generate(ctx, eval, waveEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	kept, err := f.plans.FindByStoreWaveSection(ctx, storeID, "Wave 2", "A")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitingForApproval, kept.Status)
}

func TestGenerate_RecurrenceTags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storeID := id.NewStoreID()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	failedItem := func(code int) scoring.FailedItem {
		return scoring.FailedItem{Section: "A", SectionName: "Service Quality", Code: code, Label: "item"}
	}
	sections := []evalmodels.SectionScore{{Letter: "A", Name: "Service Quality", Score: float64Ptr(60)}}

	// Wave 1: items 101 and 103 failed. Wave 2: item 101 failed again.
	require.NoError(t, f.evals.Upsert(ctx, evalWith(storeID, "Wave 1", base,
		sections, []scoring.FailedItem{failedItem(101), failedItem(103)})))
	require.NoError(t, f.evals.Upsert(ctx, evalWith(storeID, "Wave 2", base.AddDate(0, 1, 0),
		sections, []scoring.FailedItem{failedItem(101)})))

	// Wave 3: 101 fails a third consecutive time (Recurring, threshold 2 prior),
	// 103 failed before but skipped Wave 2 (Inconsistent), 105 is new.
	current := evalWith(storeID, "Wave 3", base.AddDate(0, 2, 0),
		sections, []scoring.FailedItem{failedItem(101), failedItem(103), failedItem(105)})
	require.NoError(t, f.evals.Upsert(ctx, current))

	report, err := f.gen.Generate(ctx, current, base.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	plan, err := f.plans.FindByStoreWaveSection(ctx, storeID, "Wave 3", "A")
	require.NoError(t, err)
	require.Len(t, plan.Items, 3)

	tags := map[int]models.RecurrenceTag{}
	for _, item := range plan.Items {
		tags[item.Code] = item.Recurrence
	}
	assert.Equal(t, models.TagRecurring, tags[101])
	assert.Equal(t, models.TagInconsistent, tags[103])
	assert.Equal(t, models.TagJustFailed, tags[105])
}

func TestGenerate_RecurrenceSurvivesHistoricalReingestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storeID := id.NewStoreID()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	failedItem := func(code int) scoring.FailedItem {
		return scoring.FailedItem{Section: "A", SectionName: "Service Quality", Code: code, Label: "item"}
	}
	sections := []evalmodels.SectionScore{{Letter: "A", Name: "Service Quality", Score: float64Ptr(60)}}

	// Item 101 passes Wave 1 and then fails Waves 2 and 3.
	require.NoError(t, f.evals.Upsert(ctx, evalWith(storeID, "Wave 1", base, sections, nil)))
	require.NoError(t, f.evals.Upsert(ctx, evalWith(storeID, "Wave 2", base.AddDate(0, 1, 0),
		sections, []scoring.FailedItem{failedItem(101)})))
	require.NoError(t, f.evals.Upsert(ctx, evalWith(storeID, "Wave 3", base.AddDate(0, 2, 0),
		sections, []scoring.FailedItem{failedItem(101)})))

	// A corrected Wave 1 export lands after Wave 3 is already in. Its record
	// now carries the newest ingestion timestamp, but Wave 1 is still the
	// oldest wave and must not shadow Waves 2 and 3 in the streak walk.
	require.NoError(t, f.evals.Upsert(ctx, evalWith(storeID, "Wave 1", base.AddDate(0, 3, 0), sections, nil)))

	// Wave 4: third consecutive failure for 101.
	current := evalWith(storeID, "Wave 4", base.AddDate(0, 4, 0),
		sections, []scoring.FailedItem{failedItem(101)})
	require.NoError(t, f.evals.Upsert(ctx, current))

	report, err := f.gen.Generate(ctx, current, base.AddDate(0, 4, 0))
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	plan, err := f.plans.FindByStoreWaveSection(ctx, storeID, "Wave 4", "A")
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, models.TagRecurring, plan.Items[0].Recurrence)
}
