package registry

import (
	"context"

	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// ErrNotFound is returned when a lookup misses. Callers decide whether a
// miss is a skip (ingestion) or an error (API reads).
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "registry entry not found")

// Directory is the persistence interface for the retail hierarchy.
// Error Contract:
// - Find/Get methods return ErrNotFound when the requested entity does not exist
// - Save methods return nil on success or wrapped errors on failure
type Directory interface {
	SaveRegion(ctx context.Context, region *Region) error
	SaveBranch(ctx context.Context, branch *Branch) error
	SaveStore(ctx context.Context, store *Store) error

	FindStoreByCode(ctx context.Context, code string) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	ListStoresByBranch(ctx context.Context, branchID id.BranchID) ([]*Store, error)
	ListBranches(ctx context.Context) ([]*Branch, error)
	ListRegions(ctx context.Context) ([]*Region, error)
}
