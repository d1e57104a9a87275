package models

import "time"

// DirectiveScopeType is what a FocusDirective re-weights by.
type DirectiveScopeType string

const (
	ScopeApplication DirectiveScopeType = "application"
	ScopeStakeholder DirectiveScopeType = "stakeholder"
	ScopeTaskType    DirectiveScopeType = "task_type"
	ScopeQuery       DirectiveScopeType = "query"
)

// DirectiveStrength controls the magnitude of the focus multiplier.
type DirectiveStrength string

const (
	StrengthNudge  DirectiveStrength = "nudge"
	StrengthStrong DirectiveStrength = "strong"
	StrengthHard   DirectiveStrength = "hard"
)

// FocusDirective is a scoped multiplier that re-weights tasks at plan time.
type FocusDirective struct {
	ID         string
	OwnerID    string
	Text       string
	ScopeType  DirectiveScopeType
	ScopeID    *string
	ScopeValue *string
	Strength   DirectiveStrength
	IsActive   bool
	StartsAt   *time.Time
	EndsAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InWindow reports whether now falls inside the directive's optional
// starts_at/ends_at window. A directive with no window is always in window.
func (f *FocusDirective) InWindow(now time.Time) bool {
	if f.StartsAt != nil && now.Before(*f.StartsAt) {
		return false
	}
	if f.EndsAt != nil && now.After(*f.EndsAt) {
		return false
	}
	return true
}
