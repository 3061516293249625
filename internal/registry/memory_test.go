package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

func TestInMemoryDirectory_FindStoreByCode(t *testing.T) {
	ctx := context.Background()
	dir := NewInMemoryDirectory()

	region := &Region{ID: id.NewRegionID(), Name: "Jawa Barat"}
	branch := &Branch{ID: id.NewBranchID(), Name: "Branch Bandung Raya", RegionID: region.ID}
	store := &Store{ID: id.NewStoreID(), Code: "S-001", Name: "Outlet Dago", BranchID: branch.ID, RegionID: region.ID}

	require.NoError(t, dir.SaveRegion(ctx, region))
	require.NoError(t, dir.SaveBranch(ctx, branch))
	require.NoError(t, dir.SaveStore(ctx, store))

	found, err := dir.FindStoreByCode(ctx, "S-001")
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	// Returned record is a copy; mutating it must not leak back.
	found.Name = "mutated"
	again, err := dir.FindStoreByCode(ctx, "S-001")
	require.NoError(t, err)
	assert.Equal(t, "Outlet Dago", again.Name)

	_, err = dir.FindStoreByCode(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInMemoryDirectory_ListStoresByBranch(t *testing.T) {
	ctx := context.Background()
	dir := NewInMemoryDirectory()

	branchA := id.NewBranchID()
	branchB := id.NewBranchID()
	require.NoError(t, dir.SaveStore(ctx, &Store{ID: id.NewStoreID(), Code: "S-002", BranchID: branchA}))
	require.NoError(t, dir.SaveStore(ctx, &Store{ID: id.NewStoreID(), Code: "S-001", BranchID: branchA}))
	require.NoError(t, dir.SaveStore(ctx, &Store{ID: id.NewStoreID(), Code: "S-003", BranchID: branchB}))

	stores, err := dir.ListStoresByBranch(ctx, branchA)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "S-001", stores[0].Code)
	assert.Equal(t, "S-002", stores[1].Code)
}

const storeRegistryCSV = "User ID,Site Code,Display Name,Rank,Role,City,Province,Region,Branch\n" +
	"u1,S-001,Outlet Dago,Head,store,Bandung,Jawa Barat,Region West,Branch Bandung Raya\n" +
	"u2,S-002,Outlet Riau,Head,store,Bandung,Jawa Barat,Region West,Branch Bandung Raya\n" +
	"u3,S-003,Outlet Senopati,Head,store,Jakarta,DKI Jakarta,Region Central,Branch Jabodetabek 1\n" +
	"u4,,No Site Code,Head,store,Jakarta,DKI Jakarta,Region Central,Branch Jabodetabek 1\n"

func TestLoadFromCSV(t *testing.T) {
	ctx := context.Background()
	dir := NewInMemoryDirectory()

	stats, err := LoadFromCSV(ctx, dir, strings.NewReader(storeRegistryCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Regions)
	assert.Equal(t, 2, stats.Branches)
	assert.Equal(t, 3, stats.Stores)
	assert.Equal(t, 1, stats.Skipped)

	store, err := dir.FindStoreByCode(ctx, "S-003")
	require.NoError(t, err)
	assert.Equal(t, "Outlet Senopati", store.Name)
	assert.Equal(t, "DKI Jakarta", store.Province)

	branches, err := dir.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "Branch Bandung Raya", branches[0].Name)
}

func TestLoadFromCSV_MissingRequiredColumn(t *testing.T) {
	_, err := LoadFromCSV(context.Background(), NewInMemoryDirectory(), strings.NewReader("Site Code,Display Name\nS-001,X\n"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
}
