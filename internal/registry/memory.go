package registry

import (
	"context"
	"sort"
	"sync"

	id "storepulse/pkg/domain"
)

// InMemoryDirectory keeps the retail hierarchy in memory for tests and demo
// mode. All reads return copies so callers cannot mutate shared state.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	regions  map[id.RegionID]*Region
	branches map[id.BranchID]*Branch
	stores   map[id.StoreID]*Store
	byCode   map[string]id.StoreID
}

// NewInMemoryDirectory constructs an empty directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		regions:  make(map[id.RegionID]*Region),
		branches: make(map[id.BranchID]*Branch),
		stores:   make(map[id.StoreID]*Store),
		byCode:   make(map[string]id.StoreID),
	}
}

func (d *InMemoryDirectory) SaveRegion(_ context.Context, region *Region) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copyRegion := *region
	d.regions[region.ID] = &copyRegion
	return nil
}

func (d *InMemoryDirectory) SaveBranch(_ context.Context, branch *Branch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copyBranch := *branch
	d.branches[branch.ID] = &copyBranch
	return nil
}

func (d *InMemoryDirectory) SaveStore(_ context.Context, store *Store) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copyStore := *store
	d.stores[store.ID] = &copyStore
	d.byCode[store.Code] = store.ID
	return nil
}

func (d *InMemoryDirectory) FindStoreByCode(_ context.Context, code string) (*Store, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	storeID, ok := d.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	copyStore := *d.stores[storeID]
	return &copyStore, nil
}

func (d *InMemoryDirectory) ListStores(_ context.Context) ([]*Store, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stores := make([]*Store, 0, len(d.stores))
	for _, store := range d.stores {
		copyStore := *store
		stores = append(stores, &copyStore)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].Code < stores[j].Code })
	return stores, nil
}

func (d *InMemoryDirectory) ListStoresByBranch(_ context.Context, branchID id.BranchID) ([]*Store, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var stores []*Store
	for _, store := range d.stores {
		if store.BranchID != branchID {
			continue
		}
		copyStore := *store
		stores = append(stores, &copyStore)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].Code < stores[j].Code })
	return stores, nil
}

func (d *InMemoryDirectory) ListBranches(_ context.Context) ([]*Branch, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	branches := make([]*Branch, 0, len(d.branches))
	for _, branch := range d.branches {
		copyBranch := *branch
		branches = append(branches, &copyBranch)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (d *InMemoryDirectory) ListRegions(_ context.Context) ([]*Region, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	regions := make([]*Region, 0, len(d.regions))
	for _, region := range d.regions {
		copyRegion := *region
		regions = append(regions, &copyRegion)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions, nil
}
