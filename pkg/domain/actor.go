package domain

// Role identifies which tier of the remediation workflow an actor belongs to.
type Role string

const (
	RoleStore  Role = "store"  // store head: fills and submits action plans
	RoleBranch Role = "branch" // branch manager: approves or rejects submissions
	RoleRegion Role = "region" // regional manager: oversight, may also approve/reject
	RoleAdmin  Role = "admin"  // administrative reset and ingestion triggers
)

// IsValid reports whether the role is one of the known workflow tiers.
func (r Role) IsValid() bool {
	switch r {
	case RoleStore, RoleBranch, RoleRegion, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may approve or reject submissions.
func (r Role) CanReview() bool {
	return r == RoleBranch || r == RoleRegion || r == RoleAdmin
}

// Actor is the authenticated party performing a lifecycle transition.
// Carried on the request context by the auth middleware.
type Actor struct {
	ID   string
	Name string
	Role Role
}
