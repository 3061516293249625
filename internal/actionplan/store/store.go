// Package store persists action plans.
package store

import (
	"context"

	"storepulse/internal/actionplan/models"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// ErrNotFound is returned when no plan matches the lookup.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "action plan not found")

// ErrDuplicate is returned when creating a plan that would violate the
// (store, wave, section) uniqueness invariant.
var ErrDuplicate = dErrors.New(dErrors.CodeConflict, "action plan already exists for store, wave and section")

// ErrStaleStatus is returned when an update's expected status no longer
// matches the stored plan. Callers should re-read and retry or surface the
// conflict.
var ErrStaleStatus = dErrors.New(dErrors.CodeConflict, "action plan was modified concurrently")

// Store persists action plans. At most one plan exists per
// (StoreID, Wave, Section); Create enforces this.
type Store interface {
	Create(ctx context.Context, plan *models.ActionPlan) error

	// Update replaces the stored plan. expected is the status the caller
	// read before mutating; if the stored status differs the update fails
	// with ErrStaleStatus and nothing is written.
	Update(ctx context.Context, plan *models.ActionPlan, expected models.Status) error

	FindByID(ctx context.Context, planID id.PlanID) (*models.ActionPlan, error)
	FindByStoreWaveSection(ctx context.Context, storeID id.StoreID, wave, section string) (*models.ActionPlan, error)

	// ListByStore returns a store's plans ordered by wave then section.
	ListByStore(ctx context.Context, storeID id.StoreID) ([]*models.ActionPlan, error)

	// ListByWave returns all plans for one wave ordered by store then section.
	ListByWave(ctx context.Context, wave string) ([]*models.ActionPlan, error)

	// ListByStatus returns all plans in the given state ordered by
	// submission time ascending (oldest waiting first); plans never
	// submitted sort by creation time.
	ListByStatus(ctx context.Context, status models.Status) ([]*models.ActionPlan, error)
}
