package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"storepulse/internal/actionplan/models"
	id "storepulse/pkg/domain"
)

// PostgresStore persists action plans in PostgreSQL. Plan items and the
// lifecycle history are stored as JSONB; the (store_id, wave_name, section)
// unique constraint backs the uniqueness invariant and the status column
// backs the optimistic concurrency check on Update.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed plan store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const planColumns = `
	id, store_id, evaluation_id, wave_name, section, section_name, section_score,
	items, status, root_cause, commitment, person_in_charge, blocker, evidence_url,
	due_date, submitted_at, history, created_at, updated_at
`

func (s *PostgresStore) Create(ctx context.Context, plan *models.ActionPlan) error {
	items, history, err := marshalPlanJSON(plan)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO action_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(plan.ID),
		uuid.UUID(plan.StoreID),
		uuid.UUID(plan.EvaluationID),
		plan.Wave,
		plan.Section,
		plan.SectionName,
		plan.SectionScore,
		items,
		string(plan.Status),
		plan.RootCause,
		plan.Commitment,
		plan.PersonInCharge,
		plan.Blocker,
		plan.EvidenceURL,
		plan.DueDate,
		plan.SubmittedAt,
		history,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create action plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, plan *models.ActionPlan, expected models.Status) error {
	items, history, err := marshalPlanJSON(plan)
	if err != nil {
		return err
	}

	query := `
		UPDATE action_plans SET
			status = $1,
			root_cause = $2,
			commitment = $3,
			person_in_charge = $4,
			blocker = $5,
			evidence_url = $6,
			submitted_at = $7,
			items = $8,
			history = $9,
			updated_at = $10
		WHERE id = $11 AND status = $12
	`
	result, err := s.db.ExecContext(ctx, query,
		string(plan.Status),
		plan.RootCause,
		plan.Commitment,
		plan.PersonInCharge,
		plan.Blocker,
		plan.EvidenceURL,
		plan.SubmittedAt,
		items,
		history,
		plan.UpdatedAt,
		uuid.UUID(plan.ID),
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("update action plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update action plan: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing plan from a concurrent status change.
		var exists bool
		checkErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM action_plans WHERE id = $1)`, uuid.UUID(plan.ID),
		).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("update action plan: %w", checkErr)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrStaleStatus
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, planID id.PlanID) (*models.ActionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM action_plans WHERE id = $1`
	plan, err := scanPlan(s.db.QueryRowContext(ctx, query, uuid.UUID(planID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find action plan: %w", err)
	}
	return plan, nil
}

func (s *PostgresStore) FindByStoreWaveSection(ctx context.Context, storeID id.StoreID, wave, section string) (*models.ActionPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM action_plans
		WHERE store_id = $1 AND wave_name = $2 AND section = $3
	`
	plan, err := scanPlan(s.db.QueryRowContext(ctx, query, uuid.UUID(storeID), wave, section))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find action plan: %w", err)
	}
	return plan, nil
}

func (s *PostgresStore) ListByStore(ctx context.Context, storeID id.StoreID) ([]*models.ActionPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM action_plans
		WHERE store_id = $1
		ORDER BY wave_name, section
	`
	return s.queryPlans(ctx, query, uuid.UUID(storeID))
}

func (s *PostgresStore) ListByWave(ctx context.Context, wave string) ([]*models.ActionPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM action_plans
		WHERE wave_name = $1
		ORDER BY store_id, section
	`
	return s.queryPlans(ctx, query, wave)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.ActionPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM action_plans
		WHERE status = $1
		ORDER BY COALESCE(submitted_at, created_at)
	`
	return s.queryPlans(ctx, query, string(status))
}

func (s *PostgresStore) queryPlans(ctx context.Context, query string, args ...any) ([]*models.ActionPlan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list action plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.ActionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func marshalPlanJSON(plan *models.ActionPlan) (items, history []byte, err error) {
	items, err = json.Marshal(plan.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal plan items: %w", err)
	}
	history, err = json.Marshal(plan.History)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal plan history: %w", err)
	}
	return items, history, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*models.ActionPlan, error) {
	var (
		planID      uuid.UUID
		storeID     uuid.UUID
		evalID      uuid.UUID
		status      string
		items       []byte
		history     []byte
		submittedAt sql.NullTime
	)
	plan := &models.ActionPlan{}
	err := row.Scan(
		&planID, &storeID, &evalID, &plan.Wave, &plan.Section, &plan.SectionName, &plan.SectionScore,
		&items, &status, &plan.RootCause, &plan.Commitment, &plan.PersonInCharge, &plan.Blocker, &plan.EvidenceURL,
		&plan.DueDate, &submittedAt, &history, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.ID = id.PlanID(planID)
	plan.StoreID = id.StoreID(storeID)
	plan.EvaluationID = id.EvaluationID(evalID)
	plan.Status = models.Status(status)
	if submittedAt.Valid {
		t := submittedAt.Time
		plan.SubmittedAt = &t
	}
	if err := json.Unmarshal(items, &plan.Items); err != nil {
		return nil, fmt.Errorf("unmarshal plan items: %w", err)
	}
	if err := json.Unmarshal(history, &plan.History); err != nil {
		return nil, fmt.Errorf("unmarshal plan history: %w", err)
	}
	return plan, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
