// Package registry is the directory of retail entities the engine scores:
// regions own branches, branches own stores. Rows whose site code has no
// match here are skipped during ingestion, never fatal.
package registry

import (
	id "storepulse/pkg/domain"
)

// Region is the top of the retail hierarchy.
type Region struct {
	ID   id.RegionID
	Name string
}

// Branch groups stores under a region.
type Branch struct {
	ID       id.BranchID
	Name     string
	RegionID id.RegionID
}

// Store is one audited retail outlet. Code is the external site code the
// raw audit rows carry; it is the lookup key during ingestion.
type Store struct {
	ID       id.StoreID
	Code     string
	Name     string
	City     string
	Province string
	BranchID id.BranchID
	RegionID id.RegionID
}
