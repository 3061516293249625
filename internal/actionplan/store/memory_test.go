package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/actionplan/models"
	id "storepulse/pkg/domain"
)

func newTestPlan(storeID id.StoreID, wave, section string, createdAt time.Time) *models.ActionPlan {
	return &models.ActionPlan{
		ID:           id.NewPlanID(),
		StoreID:      storeID,
		EvaluationID: id.NewEvaluationID(),
		Wave:         wave,
		Section:      section,
		SectionName:  "Service Quality",
		SectionScore: 62.5,
		Status:       models.StatusRequiresAction,
		DueDate:      createdAt.AddDate(0, 0, 14),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestInMemoryStore_CreateEnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	storeID := id.NewStoreID()
	now := time.Now()

	require.NoError(t, s.Create(ctx, newTestPlan(storeID, "Wave 2", "A", now)))

	err := s.Create(ctx, newTestPlan(storeID, "Wave 2", "A", now))
	assert.True(t, errors.Is(err, ErrDuplicate))

	// Different section under the same wave is fine.
	require.NoError(t, s.Create(ctx, newTestPlan(storeID, "Wave 2", "B", now)))
}

func TestInMemoryStore_UpdateOptimisticCheck(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	now := time.Now()

	plan := newTestPlan(id.NewStoreID(), "Wave 2", "A", now)
	require.NoError(t, s.Create(ctx, plan))

	plan.Status = models.StatusWaitingForApproval
	require.NoError(t, s.Update(ctx, plan, models.StatusRequiresAction))

	// Stale expectation: the stored plan is no longer in Requires Action.
	plan.Status = models.StatusApproved
	err := s.Update(ctx, plan, models.StatusRequiresAction)
	assert.True(t, errors.Is(err, ErrStaleStatus))

	found, err := s.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitingForApproval, found.Status)

	missing := newTestPlan(id.NewStoreID(), "Wave 2", "A", now)
	err = s.Update(ctx, missing, models.StatusRequiresAction)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInMemoryStore_FindReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	plan := newTestPlan(id.NewStoreID(), "Wave 1", "A", time.Now())
	plan.History = []models.HistoryEntry{{Status: models.StatusWaitingForApproval, ActorName: "Store Head"}}
	require.NoError(t, s.Create(ctx, plan))

	found, err := s.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	found.History[0].ActorName = "mutated"
	found.RootCause = "mutated"

	again, err := s.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Store Head", again.History[0].ActorName)
	assert.Empty(t, again.RootCause)
}

func TestInMemoryStore_ListByStatusOrdersBySubmission(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	first := newTestPlan(id.NewStoreID(), "Wave 2", "A", base)
	second := newTestPlan(id.NewStoreID(), "Wave 2", "B", base)
	third := newTestPlan(id.NewStoreID(), "Wave 2", "C", base)

	for _, plan := range []*models.ActionPlan{first, second, third} {
		require.NoError(t, s.Create(ctx, plan))
	}

	// second submitted before first; third never submitted.
	submit := func(plan *models.ActionPlan, at time.Time) {
		plan.Status = models.StatusWaitingForApproval
		plan.SubmittedAt = &at
		require.NoError(t, s.Update(ctx, plan, models.StatusRequiresAction))
	}
	submit(first, base.Add(3*time.Hour))
	submit(second, base.Add(time.Hour))

	queue, err := s.ListByStatus(ctx, models.StatusWaitingForApproval)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, second.ID, queue[0].ID)
	assert.Equal(t, first.ID, queue[1].ID)

	waiting, err := s.ListByStatus(ctx, models.StatusRequiresAction)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, third.ID, waiting[0].ID)
}

func TestInMemoryStore_ListByStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	storeID := id.NewStoreID()
	now := time.Now()

	require.NoError(t, s.Create(ctx, newTestPlan(storeID, "Wave 2", "B", now)))
	require.NoError(t, s.Create(ctx, newTestPlan(storeID, "Wave 1", "A", now)))
	require.NoError(t, s.Create(ctx, newTestPlan(storeID, "Wave 2", "A", now)))
	require.NoError(t, s.Create(ctx, newTestPlan(id.NewStoreID(), "Wave 2", "A", now)))

	plans, err := s.ListByStore(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Wave 1", plans[0].Wave)
	assert.Equal(t, "A", plans[1].Section)
	assert.Equal(t, "B", plans[2].Section)
}
