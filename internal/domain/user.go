package domain

// Plan is the subscription tier cached from the backend. The authoritative
// copy lives server-side; the local value only gates UI affordances.
type Plan string

const (
	PlanFree Plan = "Free"
	PlanPro  Plan = "Pro"
	PlanTeam Plan = "Team"
)

// ParsePlan maps an arbitrary string to a known plan, defaulting to Free.
func ParsePlan(s string) Plan {
	switch Plan(s) {
	case PlanPro:
		return PlanPro
	case PlanTeam:
		return PlanTeam
	default:
		return PlanFree
	}
}

// ChatAllowed reports whether the room chat and AI chat features are
// visible for this plan.
func (p Plan) ChatAllowed() bool {
	return p == PlanTeam
}

// Paid reports whether the plan requires a checkout session.
func (p Plan) Paid() bool {
	return p == PlanPro || p == PlanTeam
}

// Account is the cached user record as returned by the auth backend.
type Account struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  Plan   `json:"plan"`
}
