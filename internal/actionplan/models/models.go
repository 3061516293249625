// Package models defines the remediation action plan and its lifecycle.
package models

import (
	"time"

	"storepulse/internal/scoring"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// Status is the lifecycle state of an action plan.
type Status string

const (
	// StatusRequiresAction is the initial state: the store must fill in and
	// submit a remediation plan.
	StatusRequiresAction Status = "Requires Action"
	// StatusWaitingForApproval means the store has submitted and a branch or
	// region reviewer must decide.
	StatusWaitingForApproval Status = "Waiting for Approval"
	// StatusApproved is terminal: the reviewer accepted the plan.
	StatusApproved Status = "Approved"
	// StatusResolved is terminal: the reviewer verified the remediation as done.
	StatusResolved Status = "Resolved"
	// StatusRevisionRequired means the reviewer rejected the submission; the
	// store must revise and resubmit.
	StatusRevisionRequired Status = "Revision Required"
)

// transitions is the full lifecycle graph. Anything not listed here is an
// invalid transition.
var transitions = map[Status][]Status{
	StatusRequiresAction:     {StatusWaitingForApproval},
	StatusWaitingForApproval: {StatusApproved, StatusResolved, StatusRevisionRequired},
	StatusRevisionRequired:   {StatusWaitingForApproval},
	StatusApproved:           {},
	StatusResolved:           {},
}

// IsValid reports whether s is a known lifecycle state.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s admits no further transitions.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the lifecycle allows moving from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// RecurrenceTag classifies a failed item against the store's recent waves.
type RecurrenceTag string

const (
	// TagJustFailed marks an item that did not fail in any lookback wave.
	TagJustFailed RecurrenceTag = "Just Failed This Wave"
	// TagInconsistent marks an item that failed before within the lookback
	// window, but not in the immediately preceding wave.
	TagInconsistent RecurrenceTag = "Inconsistent"
	// TagRecurring marks an item that failed this wave and in the
	// configured number of consecutive prior waves.
	TagRecurring RecurrenceTag = "Recurring Failed"
)

// PlanItem is one failed checklist item the plan must remediate, tagged with
// its recurrence classification.
type PlanItem struct {
	scoring.FailedItem
	Recurrence RecurrenceTag `json:"recurrence"`
}

// HistoryEntry is one immutable step in a plan's audit trail. Entries are
// append-only; rewriting history is never allowed.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Submission carries the store's remediation content. All fields except
// Blocker and EvidenceURL are required on submit.
type Submission struct {
	RootCause      string
	Commitment     string
	PersonInCharge string
	Blocker        string
	EvidenceURL    string
}

// ActionPlan tracks remediation of one failed section for one store in one
// wave.
//
// # Uniqueness Invariant
//
// At most one plan exists per (StoreID, Wave, Section). Generation is
// idempotent: re-running it for the same evaluation never duplicates or
// resets an existing plan.
type ActionPlan struct {
	ID           id.PlanID
	StoreID      id.StoreID
	EvaluationID id.EvaluationID
	Wave         string
	Section      string
	SectionName  string
	SectionScore float64
	Items        []PlanItem
	Status       Status

	RootCause      string
	Commitment     string
	PersonInCharge string
	Blocker        string
	EvidenceURL    string

	DueDate     time.Time
	SubmittedAt *time.Time
	History     []HistoryEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewActionPlan creates a plan in the initial state with domain invariant
// checks.
func NewActionPlan(planID id.PlanID, storeID id.StoreID, evalID id.EvaluationID, wave, section, sectionName string, score float64, items []PlanItem, dueDate, now time.Time) (*ActionPlan, error) {
	if planID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "plan ID required")
	}
	if storeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "store ID required")
	}
	if evalID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "evaluation ID required")
	}
	if wave == "" || section == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "wave and section required")
	}
	if dueDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "due date required")
	}
	return &ActionPlan{
		ID:           planID,
		StoreID:      storeID,
		EvaluationID: evalID,
		Wave:         wave,
		Section:      section,
		SectionName:  sectionName,
		SectionScore: score,
		Items:        items,
		Status:       StatusRequiresAction,
		DueDate:      dueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Overdue reports whether the plan still awaits the store's submission past
// its due date. Overdue is derived, never stored: a plan stops being overdue
// the moment it is submitted.
func (p *ActionPlan) Overdue(now time.Time) bool {
	return p.Status == StatusRequiresAction && now.After(p.DueDate)
}

// AppendHistory records a lifecycle step. Mutates the plan in place.
func (p *ActionPlan) AppendHistory(status Status, note, actorID, actorName string, at time.Time) {
	p.History = append(p.History, HistoryEntry{
		Status:    status,
		Note:      note,
		ActorID:   actorID,
		ActorName: actorName,
		Timestamp: at,
	})
}
