package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestComputeDelta_DetectsTimeAndContentChange(t *testing.T) {
	base := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	prev := Snapshot([]models.CalendarEvent{
		{ExternalEventID: "E", StartAt: base, EndAt: base.Add(time.Hour), ContentHash: "h1"},
	})
	current := Snapshot([]models.CalendarEvent{
		{ExternalEventID: "E", StartAt: base.Add(30 * time.Minute), EndAt: base.Add(90 * time.Minute), ContentHash: "h2"},
	})

	delta := ComputeDelta(prev, current)
	if assert.Len(t, delta.Changed, 1) {
		assert.True(t, delta.Changed[0].TimeChanged)
		assert.True(t, delta.Changed[0].ContentChanged)
		assert.Equal(t, "E", delta.Changed[0].ExternalEventID)
	}
	assert.Empty(t, delta.Added)
	assert.Empty(t, delta.Removed)
}

func TestComputeDelta_AddedAndRemoved(t *testing.T) {
	base := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	prev := Snapshot([]models.CalendarEvent{
		{ExternalEventID: "OLD", StartAt: base, EndAt: base.Add(time.Hour), ContentHash: "h"},
	})
	current := Snapshot([]models.CalendarEvent{
		{ExternalEventID: "NEW", StartAt: base, EndAt: base.Add(time.Hour), ContentHash: "h"},
	})

	delta := ComputeDelta(prev, current)
	assert.Len(t, delta.Added, 1)
	assert.Len(t, delta.Removed, 1)
	assert.Empty(t, delta.Changed)
}
