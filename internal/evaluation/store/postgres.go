package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storepulse/internal/evaluation/models"
	"storepulse/internal/scoring"
	id "storepulse/pkg/domain"
)

// PostgresStore persists evaluations in PostgreSQL. Section scores and
// failed items are stored as JSONB; the (store_id, wave_name) unique
// constraint backs the idempotent upsert.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed evaluation store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, eval *models.WaveEvaluation) error {
	if eval.ID.IsNil() {
		eval.ID = id.NewEvaluationID()
	}

	sections, err := json.Marshal(eval.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	failedItems, err := json.Marshal(eval.FailedItems)
	if err != nil {
		return fmt.Errorf("marshal failed items: %w", err)
	}

	query := `
		INSERT INTO wave_evaluations (id, store_id, wave_name, overall_score, sections, failed_items, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (store_id, wave_name) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			sections = EXCLUDED.sections,
			failed_items = EXCLUDED.failed_items,
			ingested_at = EXCLUDED.ingested_at
		RETURNING id
	`
	var keptID uuid.UUID
	err = s.db.QueryRowContext(ctx, query,
		uuid.UUID(eval.ID),
		uuid.UUID(eval.StoreID),
		eval.Wave,
		eval.OverallScore,
		sections,
		failedItems,
		eval.IngestedAt,
	).Scan(&keptID)
	if err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	eval.ID = id.EvaluationID(keptID)
	return nil
}

func (s *PostgresStore) FindByStoreAndWave(ctx context.Context, storeID id.StoreID, wave string) (*models.WaveEvaluation, error) {
	query := `
		SELECT id, store_id, wave_name, overall_score, sections, failed_items, ingested_at
		FROM wave_evaluations
		WHERE store_id = $1 AND wave_name = $2
	`
	eval, err := scanEvaluation(s.db.QueryRowContext(ctx, query, uuid.UUID(storeID), wave))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find evaluation: %w", err)
	}
	return eval, nil
}

func (s *PostgresStore) ListByStore(ctx context.Context, storeID id.StoreID) ([]*models.WaveEvaluation, error) {
	query := `
		SELECT id, store_id, wave_name, overall_score, sections, failed_items, ingested_at
		FROM wave_evaluations
		WHERE store_id = $1
		ORDER BY ingested_at
	`
	return s.queryEvaluations(ctx, query, uuid.UUID(storeID))
}

func (s *PostgresStore) ListByWave(ctx context.Context, wave string) ([]*models.WaveEvaluation, error) {
	query := `
		SELECT id, store_id, wave_name, overall_score, sections, failed_items, ingested_at
		FROM wave_evaluations
		WHERE wave_name = $1
		ORDER BY store_id
	`
	return s.queryEvaluations(ctx, query, wave)
}

func (s *PostgresStore) ListWaves(ctx context.Context) ([]string, error) {
	query := `
		SELECT wave_name
		FROM wave_evaluations
		GROUP BY wave_name
		ORDER BY MIN(ingested_at), wave_name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list waves: %w", err)
	}
	defer rows.Close()

	var waves []string
	for rows.Next() {
		var wave string
		if err := rows.Scan(&wave); err != nil {
			return nil, fmt.Errorf("scan wave: %w", err)
		}
		waves = append(waves, wave)
	}
	return waves, rows.Err()
}

func (s *PostgresStore) queryEvaluations(ctx context.Context, query string, args ...any) ([]*models.WaveEvaluation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*models.WaveEvaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	return evals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (*models.WaveEvaluation, error) {
	var (
		evalID      uuid.UUID
		storeID     uuid.UUID
		wave        string
		overall     float64
		sections    []byte
		failedItems []byte
		ingestedAt  time.Time
	)
	if err := row.Scan(&evalID, &storeID, &wave, &overall, &sections, &failedItems, &ingestedAt); err != nil {
		return nil, err
	}

	eval := &models.WaveEvaluation{
		ID:           id.EvaluationID(evalID),
		StoreID:      id.StoreID(storeID),
		Wave:         wave,
		OverallScore: overall,
		IngestedAt:   ingestedAt,
	}
	if err := json.Unmarshal(sections, &eval.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	if len(failedItems) > 0 {
		var items []scoring.FailedItem
		if err := json.Unmarshal(failedItems, &items); err != nil {
			return nil, fmt.Errorf("unmarshal failed items: %w", err)
		}
		eval.FailedItems = items
	}
	return eval, nil
}
