package models

import "time"

// PlanStatus is the lifecycle of a Plan.
type PlanStatus string

const (
	PlanStatusProposed PlanStatus = "proposed"
	PlanStatusApplied  PlanStatus = "applied"
)

// Plan is an immutable scoring snapshot for a given (owner, plan_date).
type Plan struct {
	ID             string
	OwnerID        string
	PlanDate       string // YYYY-MM-DD in the workday timezone
	Source         string
	InputsSnapshot map[string]interface{}
	PlanJSON       map[string]interface{}
	ReasonsJSON    map[string]interface{}
	Status         PlanStatus
	AppliedAt      *time.Time
	CreatedAt      time.Time
}
