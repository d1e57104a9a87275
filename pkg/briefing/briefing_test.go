package briefing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bvquist1400/mission-control/pkg/calendar"
	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestResolveMode(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	cases := []struct {
		hour int
		want Mode
	}{
		{9, ModeMorning},
		{11, ModeMorning},
		{12, ModeMidday},
		{14, ModeMidday},
		{15, ModeEod},
		{20, ModeEod},
	}
	for _, tc := range cases {
		now := time.Date(2026, 8, 1, tc.hour, 0, 0, 0, loc)
		assert.Equal(t, tc.want, ResolveMode(ModeAuto, now))
	}
	fixed := time.Date(2026, 8, 1, 9, 0, 0, 0, loc)
	assert.Equal(t, ModeEod, ResolveMode(ModeEod, fixed))
}

func TestValidateNarrative(t *testing.T) {
	assert.True(t, validateNarrative("You finished two tasks today. Tomorrow starts with a sync at 9am."))
	assert.False(t, validateNarrative(""))
	assert.False(t, validateNarrative("- Do the thing"))
	assert.False(t, validateNarrative("Line one.\nLine two."))
	assert.False(t, validateNarrative("One. Two. Three. Four."))
}

func TestTokenizeExcludesStopwords(t *testing.T) {
	tokens := tokenize("Weekly Sync with Nancy: Q3 Roadmap")
	assert.NotContains(t, tokens, "weekly")
	assert.NotContains(t, tokens, "sync")
	assert.Contains(t, tokens, "nancy")
	assert.Contains(t, tokens, "q3")
}

func TestOverlapRatio(t *testing.T) {
	taskTokens := tokenize("Prep deck for board meeting")
	eventTokens := tokenize("Board Meeting")
	ratio := overlapRatio(taskTokens, eventTokens)
	assert.GreaterOrEqual(t, ratio, 0.3)
}

func TestPrepReasonMeetingPrepType(t *testing.T) {
	task := &models.Task{Title: "Prep board deck", Type: models.TaskTypeMeetingPrep, Status: models.TaskStatusBacklog}
	events := []*models.CalendarEvent{{Title: "Board Meeting"}}
	reason, ok := prepReason(task, events, calendar.DayWindow{})
	assert.True(t, ok)
	assert.Contains(t, reason, "Board Meeting")
}

func TestPrepReasonDoneTaskExcluded(t *testing.T) {
	task := &models.Task{Title: "Prep deck", Type: models.TaskTypeMeetingPrep, Status: models.TaskStatusDone}
	_, ok := prepReason(task, nil, calendar.DayWindow{})
	assert.False(t, ok)
}

func TestPrepReasonDueTomorrowLongEstimate(t *testing.T) {
	now := time.Now()
	window := calendar.DayWindow{StartAt: now.Add(-time.Hour), EndAt: now.Add(12 * time.Hour)}
	due := now
	task := &models.Task{Title: "Finalize budget numbers", Status: models.TaskStatusBacklog, DueAt: &due, EstimatedMinutes: 90}
	reason, ok := prepReason(task, nil, window)
	assert.True(t, ok)
	assert.NotEmpty(t, reason)
}

func TestPrepReasonDueOutsideTomorrowWindowExcluded(t *testing.T) {
	now := time.Now()
	window := calendar.DayWindow{StartAt: now.Add(24 * time.Hour), EndAt: now.Add(36 * time.Hour)}
	due := now
	task := &models.Task{Title: "Finalize budget numbers", Status: models.TaskStatusBacklog, DueAt: &due, EstimatedMinutes: 90}
	_, ok := prepReason(task, nil, window)
	assert.False(t, ok)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 50, round(49.6))
	assert.Equal(t, 0, round(0))
}
