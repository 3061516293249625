// Package seeder populates in-memory stores with demo data: a small retail
// hierarchy, two waves of evaluations, and action plans in every lifecycle
// state. Used by demo mode so the API is explorable without a database.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storepulse/internal/actionplan/generator"
	planmodels "storepulse/internal/actionplan/models"
	planstore "storepulse/internal/actionplan/store"
	evalmodels "storepulse/internal/evaluation/models"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/registry"
	"storepulse/internal/scoring"
	"storepulse/internal/taxonomy"
	id "storepulse/pkg/domain"
)

// DemoTaxonomy returns the reference data the seeded evaluations score
// against, so demo mode can ingest and audit without the real exports.
func DemoTaxonomy() (*taxonomy.Taxonomy, error) {
	return taxonomy.New([]taxonomy.Section{
		{
			Letter: "A",
			Name:   "A. Service Quality",
			Weight: 4,
			Items: []taxonomy.Item{
				{Code: 101, Label: "(101) Greets the customer"},
				{Code: 102, Label: "(102) Offers the promo of the month"},
			},
		},
		{
			Letter: "B",
			Name:   "B. Cleanliness",
			Weight: 6,
			Items: []taxonomy.Item{
				{Code: 201, Label: "(201) Floor is clean"},
			},
		},
	})
}

// Seeder populates the stores with demo data.
type Seeder struct {
	directory registry.Directory
	evals     evalstore.Store
	plans     planstore.Store
	gen       *generator.Generator
	logger    *slog.Logger
}

// New creates a new seeder.
func New(directory registry.Directory, evals evalstore.Store, plans planstore.Store, gen *generator.Generator, logger *slog.Logger) *Seeder {
	return &Seeder{
		directory: directory,
		evals:     evals,
		plans:     plans,
		gen:       gen,
		logger:    logger,
	}
}

// SeedAll populates all stores with demo data.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	stores, err := s.seedHierarchy(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed retail hierarchy: %w", err)
	}

	evals, err := s.seedEvaluations(ctx, stores)
	if err != nil {
		return fmt.Errorf("failed to seed evaluations: %w", err)
	}

	created, err := s.seedPlans(ctx, evals)
	if err != nil {
		return fmt.Errorf("failed to seed action plans: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"stores", len(stores),
		"evaluations", len(evals),
		"plans", created,
	)

	return nil
}

func (s *Seeder) seedHierarchy(ctx context.Context) ([]*registry.Store, error) {
	regionWest := &registry.Region{ID: id.NewRegionID(), Name: "West"}
	regionEast := &registry.Region{ID: id.NewRegionID(), Name: "East"}
	for _, region := range []*registry.Region{regionWest, regionEast} {
		if err := s.directory.SaveRegion(ctx, region); err != nil {
			return nil, err
		}
	}

	branches := []*registry.Branch{
		{ID: id.NewBranchID(), Name: "Jakarta Metro", RegionID: regionWest.ID},
		{ID: id.NewBranchID(), Name: "Bandung", RegionID: regionWest.ID},
		{ID: id.NewBranchID(), Name: "Surabaya", RegionID: regionEast.ID},
	}
	for _, branch := range branches {
		if err := s.directory.SaveBranch(ctx, branch); err != nil {
			return nil, err
		}
	}

	demoStores := []struct {
		code      string
		name      string
		city      string
		province  string
		branchIdx int
	}{
		{"S-001", "Central Plaza", "Jakarta", "DKI Jakarta", 0},
		{"S-002", "Harbor Point", "Jakarta", "DKI Jakarta", 0},
		{"S-003", "Riverside Mall", "Bandung", "West Java", 1},
		{"S-004", "Hillside Corner", "Bandung", "West Java", 1},
		{"S-005", "Sunrise Square", "Surabaya", "East Java", 2},
		{"S-006", "Garden Walk", "Surabaya", "East Java", 2},
	}

	var stores []*registry.Store
	for _, d := range demoStores {
		branch := branches[d.branchIdx]
		store := &registry.Store{
			ID:       id.NewStoreID(),
			Code:     d.code,
			Name:     d.name,
			City:     d.city,
			Province: d.province,
			BranchID: branch.ID,
			RegionID: branch.RegionID,
		}
		if err := s.directory.SaveStore(ctx, store); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	return stores, nil
}

func (s *Seeder) seedEvaluations(ctx context.Context, stores []*registry.Store) ([]*evalmodels.WaveEvaluation, error) {
	now := time.Now()

	// Per-store section scores across two waves. S-001 fails Service Quality
	// in both waves so the recurrence tagging has history to chew on.
	waves := []struct {
		wave       string
		ingestedAt time.Time
		scores     map[string][2]float64 // store code -> {A, B}
	}{
		{
			wave:       "Wave 1",
			ingestedAt: now.Add(-45 * 24 * time.Hour),
			scores: map[string][2]float64{
				"S-001": {75, 95},
				"S-002": {92, 88},
				"S-003": {100, 100},
				"S-004": {85, 91},
				"S-005": {95, 70},
				"S-006": {90, 90},
			},
		},
		{
			wave:       "Wave 2",
			ingestedAt: now.Add(-10 * 24 * time.Hour),
			scores: map[string][2]float64{
				"S-001": {80, 92},
				"S-002": {95, 85},
				"S-003": {100, 100},
				"S-004": {93, 94},
				"S-005": {96, 88},
				"S-006": {90, 72},
			},
		},
	}

	var evals []*evalmodels.WaveEvaluation
	for _, w := range waves {
		for _, store := range stores {
			scores, ok := w.scores[store.Code]
			if !ok {
				continue
			}
			eval := buildEvaluation(store.ID, w.wave, scores[0], scores[1], w.ingestedAt)
			if err := s.evals.Upsert(ctx, eval); err != nil {
				return nil, err
			}
			evals = append(evals, eval)
		}
	}

	return evals, nil
}

// buildEvaluation assembles a two-section evaluation with failed items for
// every section under 100.
func buildEvaluation(storeID id.StoreID, wave string, scoreA, scoreB float64, ingestedAt time.Time) *evalmodels.WaveEvaluation {
	sections := []evalmodels.SectionScore{
		{Letter: "A", Name: "Service Quality", Score: &scoreA},
		{Letter: "B", Name: "Cleanliness", Score: &scoreB},
	}

	var failed []scoring.FailedItem
	if scoreA < 100 {
		failed = append(failed, scoring.FailedItem{
			Section: "A", SectionName: "Service Quality",
			Code: 101, Label: "Greets the customer",
		})
	}
	if scoreB < 100 {
		failed = append(failed, scoring.FailedItem{
			Section: "B", SectionName: "Cleanliness",
			Code: 201, Label: "Floor is clean",
		})
	}

	return &evalmodels.WaveEvaluation{
		ID:           id.NewEvaluationID(),
		StoreID:      storeID,
		Wave:         wave,
		OverallScore: scoring.Round2((scoreA*4 + scoreB*6) / 10),
		Sections:     sections,
		FailedItems:  failed,
		IngestedAt:   ingestedAt,
	}
}

// seedPlans runs the generator over the latest wave and then walks a few of
// the resulting plans through the lifecycle so every status is represented.
func (s *Seeder) seedPlans(ctx context.Context, evals []*evalmodels.WaveEvaluation) (int, error) {
	waves, err := s.evals.ListWaves(ctx)
	if err != nil {
		return 0, err
	}
	if len(waves) == 0 {
		return 0, nil
	}
	latest := waves[len(waves)-1]

	now := time.Now()
	created := 0
	for _, eval := range evals {
		if eval.Wave != latest {
			continue
		}
		// Wave ended three weeks ago, so unsubmitted plans show up overdue.
		report, err := s.gen.Generate(ctx, eval, now.Add(-21*24*time.Hour))
		if err != nil {
			return created, err
		}
		created += report.Created
	}

	plans, err := s.plans.ListByWave(ctx, latest)
	if err != nil {
		return created, err
	}

	// Advance plans round-robin: leave the first as Requires Action, submit
	// the second, submit-and-reject the third, submit-and-approve the rest.
	for i, plan := range plans {
		switch i % 4 {
		case 0:
			continue
		case 1:
			if err := s.submit(ctx, plan, now.Add(-2*24*time.Hour)); err != nil {
				return created, err
			}
		case 2:
			if err := s.submit(ctx, plan, now.Add(-2*24*time.Hour)); err != nil {
				return created, err
			}
			if err := s.review(ctx, plan, planmodels.StatusRevisionRequired,
				"Root cause does not explain the repeated failure.", now.Add(-24*time.Hour)); err != nil {
				return created, err
			}
		default:
			if err := s.submit(ctx, plan, now.Add(-2*24*time.Hour)); err != nil {
				return created, err
			}
			if err := s.review(ctx, plan, planmodels.StatusApproved,
				"Plan is concrete and scheduled.", now.Add(-24*time.Hour)); err != nil {
				return created, err
			}
		}
	}

	return created, nil
}

func (s *Seeder) submit(ctx context.Context, plan *planmodels.ActionPlan, at time.Time) error {
	from := plan.Status
	plan.RootCause = "New hires were not walked through the greeting standard."
	plan.Commitment = "Run the greeting drill at every shift opening for two weeks."
	plan.PersonInCharge = "Store head"
	plan.SubmittedAt = &at
	plan.Status = planmodels.StatusWaitingForApproval
	plan.AppendHistory(planmodels.StatusWaitingForApproval, "", "seed-store-head", "Demo Store Head", at)
	return s.plans.Update(ctx, plan, from)
}

func (s *Seeder) review(ctx context.Context, plan *planmodels.ActionPlan, to planmodels.Status, note string, at time.Time) error {
	from := plan.Status
	plan.Status = to
	plan.AppendHistory(to, note, "seed-branch-manager", "Demo Branch Manager", at)
	return s.plans.Update(ctx, plan, from)
}
