package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestScore_UrgencyBoostTiers(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		due  time.Duration
		want float64
	}{
		{"overdue", -time.Hour, 25},
		{"within24h", 12 * time.Hour, 15},
		{"within72h", 48 * time.Hour, 7},
		{"beyond", 96 * time.Hour, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			due := now.Add(c.due)
			r := Score(Input{
				PriorityScoreBase: 50,
				DueAt:             &due,
				Status:            models.TaskStatusPlanned,
				UpdatedAt:         now,
				Now:               now,
			})
			assert.Equal(t, c.want, r.UrgencyBoost)
		})
	}
}

func TestScore_StakeholderBoostCaseInsensitive(t *testing.T) {
	now := time.Now()
	r := Score(Input{
		PriorityScoreBase:   50,
		Status:              models.TaskStatusPlanned,
		UpdatedAt:           now,
		Now:                 now,
		StakeholderMentions: []string{"Nancy Smith"},
	})
	assert.Equal(t, float64(10), r.StakeholderBoost)
}

func TestScore_BlockedWaitingFollowUpDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	r := Score(Input{
		PriorityScoreBase: 40,
		Status:            models.TaskStatusBlockedWaiting,
		FollowUpAt:        &past,
		UpdatedAt:         now,
		Now:               now,
	})
	assert.True(t, r.FollowUpDue)
	assert.Equal(t, float64(0), r.StatusAdjust)
}

func TestScore_BlockedWaitingNotYetDue(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	r := Score(Input{
		PriorityScoreBase: 40,
		Status:            models.TaskStatusBlockedWaiting,
		FollowUpAt:        &future,
		UpdatedAt:         now,
		Now:               now,
	})
	assert.False(t, r.FollowUpDue)
	assert.Equal(t, float64(-15), r.StatusAdjust)
}

func TestScore_FinalScoreClampedAndMultiplied(t *testing.T) {
	now := time.Now()
	r := Score(Input{
		PriorityScoreBase:       100,
		Status:                  models.TaskStatusInProgress,
		UpdatedAt:               now.Add(-200 * time.Hour),
		Now:                     now,
		FitBonus:                5,
		ImplementationMultiplier: 1.8,
		DirectiveMultiplier:      2.0,
	})
	assert.LessOrEqual(t, r.FinalScore, float64(300))
	assert.Greater(t, r.FinalScore, r.PreMultiplierScore)
}

func TestScore_DoneExcludedByCaller(t *testing.T) {
	// The kernel itself does not special-case Done; exclusion is the
	// planner's responsibility (§8 invariant). statusAdjust falls to the
	// default 0 branch for any status not explicitly handled.
	now := time.Now()
	r := Score(Input{
		PriorityScoreBase: 10,
		Status:            models.TaskStatusDone,
		UpdatedAt:         now,
		Now:               now,
	})
	assert.Equal(t, float64(0), r.StatusAdjust)
}
