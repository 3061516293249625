// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "storepulse/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a StoreID where a PlanID is expected.
type (
	StoreID      uuid.UUID
	BranchID     uuid.UUID
	RegionID     uuid.UUID
	EvaluationID uuid.UUID
	PlanID       uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseStoreID(s string) (StoreID, error) {
	id, err := parseUUID(s, "store ID")
	return StoreID(id), err
}

func ParseBranchID(s string) (BranchID, error) {
	id, err := parseUUID(s, "branch ID")
	return BranchID(id), err
}

func ParseRegionID(s string) (RegionID, error) {
	id, err := parseUUID(s, "region ID")
	return RegionID(id), err
}

func ParseEvaluationID(s string) (EvaluationID, error) {
	id, err := parseUUID(s, "evaluation ID")
	return EvaluationID(id), err
}

func ParsePlanID(s string) (PlanID, error) {
	id, err := parseUUID(s, "plan ID")
	return PlanID(id), err
}

// New functions - for record creation in services and seeders.

func NewStoreID() StoreID           { return StoreID(uuid.New()) }
func NewBranchID() BranchID         { return BranchID(uuid.New()) }
func NewRegionID() RegionID         { return RegionID(uuid.New()) }
func NewEvaluationID() EvaluationID { return EvaluationID(uuid.New()) }
func NewPlanID() PlanID             { return PlanID(uuid.New()) }

// String methods - for logging and debugging.

func (id StoreID) String() string      { return uuid.UUID(id).String() }
func (id BranchID) String() string     { return uuid.UUID(id).String() }
func (id RegionID) String() string     { return uuid.UUID(id).String() }
func (id EvaluationID) String() string { return uuid.UUID(id).String() }
func (id PlanID) String() string       { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id StoreID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id BranchID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RegionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id EvaluationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PlanID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed here; use IsNil() at the service layer for business
// validation so store lookups can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
