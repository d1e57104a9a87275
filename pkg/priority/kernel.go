// Package priority implements the pure scoring kernel shared by the
// planner and the extraction pipeline. Every function here is
// deterministic and side-effect free: given the same inputs it always
// returns the same outputs, which is what makes the planner's ranking
// reproducible from a task plus its snapshot inputs alone.
package priority

import (
	"math"
	"strings"
	"time"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// DefaultHighPriorityStakeholders is the built-in stakeholder boost set.
var DefaultHighPriorityStakeholders = []string{"nancy", "heath"}

// Input is everything the kernel needs to score one task.
type Input struct {
	PriorityScoreBase float64
	DueAt             *time.Time
	FollowUpAt        *time.Time
	WaitingOn         *string
	Blocker           bool
	Status            models.TaskStatus
	UpdatedAt         time.Time

	StakeholderMentions []string

	Now                        time.Time
	HighPriorityStakeholders   []string
	FitBonus                   float64
	ImplementationMultiplier   float64
	DirectiveMultiplier        float64
}

// Result is the full breakdown of a score computation, returned so
// callers (and tests) can inspect every intermediate boost.
type Result struct {
	PriorityBlend      float64
	UrgencyBoost       float64
	StakeholderBoost   float64
	StalenessBoost     float64
	StatusAdjust       float64
	FitBonus           float64
	FollowUpDue        bool
	PreMultiplierScore float64
	FinalScore         float64
}

// Score computes the full priority breakdown for one task per §4.B.
func Score(in Input) Result {
	stakeholders := in.HighPriorityStakeholders
	if stakeholders == nil {
		stakeholders = DefaultHighPriorityStakeholders
	}

	r := Result{
		PriorityBlend: clamp(in.PriorityScoreBase, 0, 100),
	}

	r.UrgencyBoost = urgencyBoost(in.DueAt, in.Now)
	r.StakeholderBoost = stakeholderBoost(in.StakeholderMentions, stakeholders)
	r.StalenessBoost = stalenessBoost(in.UpdatedAt, in.Now)
	r.StatusAdjust, r.FollowUpDue = statusAdjust(in.Status, in.FollowUpAt, in.Now)
	r.FitBonus = in.FitBonus

	r.PreMultiplierScore = r.PriorityBlend + r.UrgencyBoost + r.StakeholderBoost +
		r.StalenessBoost + r.StatusAdjust + r.FitBonus

	impMult := in.ImplementationMultiplier
	if impMult == 0 {
		impMult = 1
	}
	dirMult := in.DirectiveMultiplier
	if dirMult == 0 {
		dirMult = 1
	}

	final := r.PreMultiplierScore * impMult * dirMult
	r.FinalScore = round2(clamp(final, 0, 300))

	return r
}

func urgencyBoost(dueAt *time.Time, now time.Time) float64 {
	if dueAt == nil {
		return 0
	}
	d := dueAt.Sub(now)
	switch {
	case d <= 0:
		return 25
	case d <= 24*time.Hour:
		return 15
	case d <= 72*time.Hour:
		return 7
	default:
		return 0
	}
}

func stakeholderBoost(mentions []string, highPriority []string) float64 {
	for _, m := range mentions {
		lower := strings.ToLower(m)
		for _, hp := range highPriority {
			if strings.Contains(lower, strings.ToLower(hp)) {
				return 10
			}
		}
	}
	return 0
}

func stalenessBoost(updatedAt, now time.Time) float64 {
	hours := now.Sub(updatedAt).Hours()
	switch {
	case hours >= 168:
		return 6
	case hours >= 72:
		return 3
	default:
		return 0
	}
}

func statusAdjust(status models.TaskStatus, followUpAt *time.Time, now time.Time) (adjust float64, followUpDue bool) {
	switch status {
	case models.TaskStatusInProgress:
		return 5, false
	case models.TaskStatusBlockedWaiting:
		due := followUpAt != nil && !followUpAt.After(now)
		if due {
			return 0, true
		}
		return -15, false
	case models.TaskStatusBacklog:
		return -5, false
	default:
		return 0, false
	}
}

// IntakeBoosts computes the urgency and stakeholder boosts applied to a
// freshly extracted task's base priority score, before it has any
// staleness or status history of its own.
func IntakeBoosts(stakeholderMentions []string, dueGuess *time.Time, now time.Time, highPriorityStakeholders []string) float64 {
	stakeholders := highPriorityStakeholders
	if stakeholders == nil {
		stakeholders = DefaultHighPriorityStakeholders
	}
	return urgencyBoost(dueGuess, now) + stakeholderBoost(stakeholderMentions, stakeholders)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
