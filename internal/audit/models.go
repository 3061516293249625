package audit

import "time"

// Event is emitted from domain logic to capture key lifecycle actions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	PlanID    string
	StoreID   string
	Wave      string
	Section   string
	Action    string
	ActorID   string
	ActorName string
	Note      string
}

// Plan lifecycle actions
const (
	ActionPlanGenerated = "plan_generated"
	ActionPlanSubmitted = "plan_submitted"
	ActionPlanApproved  = "plan_approved"
	ActionPlanResolved  = "plan_resolved"
	ActionPlanRejected  = "plan_rejected"
)
