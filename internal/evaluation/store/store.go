// Package store persists wave evaluations.
package store

import (
	"context"

	"storepulse/internal/evaluation/models"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// ErrNotFound is returned when no evaluation matches the lookup.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "evaluation not found")

// Store persists wave evaluations keyed by (store, wave).
type Store interface {
	// Upsert writes the evaluation. When a record already exists for the
	// same (StoreID, Wave) pair it is overwritten in place and keeps its
	// original ID; the passed evaluation's ID field is updated to match.
	Upsert(ctx context.Context, eval *models.WaveEvaluation) error

	FindByStoreAndWave(ctx context.Context, storeID id.StoreID, wave string) (*models.WaveEvaluation, error)

	// ListByStore returns every evaluation for one store, ordered by
	// ingestion time ascending.
	ListByStore(ctx context.Context, storeID id.StoreID) ([]*models.WaveEvaluation, error)

	// ListByWave returns every evaluation for one wave across all stores.
	ListByWave(ctx context.Context, wave string) ([]*models.WaveEvaluation, error)

	// ListWaves returns the distinct wave names seen so far, ordered by
	// first ingestion time ascending, so the last entry is the latest wave.
	ListWaves(ctx context.Context) ([]string, error)
}
