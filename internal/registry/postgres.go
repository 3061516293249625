package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "storepulse/pkg/domain"
)

// PostgresDirectory persists the retail hierarchy in PostgreSQL.
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory constructs a PostgreSQL-backed directory.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) SaveRegion(ctx context.Context, region *Region) error {
	query := `
		INSERT INTO regions (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := d.db.ExecContext(ctx, query, uuid.UUID(region.ID), region.Name); err != nil {
		return fmt.Errorf("save region: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) SaveBranch(ctx context.Context, branch *Branch) error {
	query := `
		INSERT INTO branches (id, name, region_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET region_id = EXCLUDED.region_id
	`
	if _, err := d.db.ExecContext(ctx, query, uuid.UUID(branch.ID), branch.Name, uuid.UUID(branch.RegionID)); err != nil {
		return fmt.Errorf("save branch: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) SaveStore(ctx context.Context, store *Store) error {
	query := `
		INSERT INTO stores (id, code, name, city, province, branch_id, region_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			province = EXCLUDED.province,
			branch_id = EXCLUDED.branch_id,
			region_id = EXCLUDED.region_id
	`
	_, err := d.db.ExecContext(ctx, query,
		uuid.UUID(store.ID),
		store.Code,
		store.Name,
		store.City,
		store.Province,
		uuid.UUID(store.BranchID),
		uuid.UUID(store.RegionID),
	)
	if err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) FindStoreByCode(ctx context.Context, code string) (*Store, error) {
	query := `
		SELECT id, code, name, city, province, branch_id, region_id
		FROM stores
		WHERE code = $1
	`
	store, err := scanStore(d.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find store: %w", err)
	}
	return store, nil
}

func (d *PostgresDirectory) ListStores(ctx context.Context) ([]*Store, error) {
	query := `
		SELECT id, code, name, city, province, branch_id, region_id
		FROM stores
		ORDER BY code
	`
	return d.queryStores(ctx, query)
}

func (d *PostgresDirectory) ListStoresByBranch(ctx context.Context, branchID id.BranchID) ([]*Store, error) {
	query := `
		SELECT id, code, name, city, province, branch_id, region_id
		FROM stores
		WHERE branch_id = $1
		ORDER BY code
	`
	return d.queryStores(ctx, query, uuid.UUID(branchID))
}

func (d *PostgresDirectory) ListBranches(ctx context.Context) ([]*Branch, error) {
	query := `
		SELECT id, name, region_id
		FROM branches
		ORDER BY name
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []*Branch
	for rows.Next() {
		var (
			branchID uuid.UUID
			name     string
			regionID uuid.UUID
		)
		if err := rows.Scan(&branchID, &name, &regionID); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, &Branch{ID: id.BranchID(branchID), Name: name, RegionID: id.RegionID(regionID)})
	}
	return branches, rows.Err()
}

func (d *PostgresDirectory) ListRegions(ctx context.Context) ([]*Region, error) {
	query := `
		SELECT id, name
		FROM regions
		ORDER BY name
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []*Region
	for rows.Next() {
		var (
			regionID uuid.UUID
			name     string
		)
		if err := rows.Scan(&regionID, &name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, &Region{ID: id.RegionID(regionID), Name: name})
	}
	return regions, rows.Err()
}

func (d *PostgresDirectory) queryStores(ctx context.Context, query string, args ...any) ([]*Store, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(row rowScanner) (*Store, error) {
	var (
		storeID  uuid.UUID
		code     string
		name     string
		city     string
		province string
		branchID uuid.UUID
		regionID uuid.UUID
	)
	if err := row.Scan(&storeID, &code, &name, &city, &province, &branchID, &regionID); err != nil {
		return nil, err
	}
	return &Store{
		ID:       id.StoreID(storeID),
		Code:     code,
		Name:     name,
		City:     city,
		Province: province,
		BranchID: id.BranchID(branchID),
		RegionID: id.RegionID(regionID),
	}, nil
}
