package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestNormalizeRange_RejectsInvertedRange(t *testing.T) {
	_, _, err := NormalizeRange("2026-08-10", "2026-08-01", DefaultFocusHours())
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNormalizeRange_RejectsOverlyWideWindow(t *testing.T) {
	_, _, err := NormalizeRange("2026-01-01", "2026-03-01", DefaultFocusHours())
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeDay_BusyBlocksAreMergedSortedAndNonOverlapping(t *testing.T) {
	fh := DefaultFocusHours()
	windows := Windows(mustParse("2026-08-03", fh), mustParse("2026-08-03", fh), fh)
	require.Len(t, windows, 1)
	w := windows[0]

	events := []models.CalendarEvent{
		{StartAt: w.StartAt.Add(2 * time.Hour), EndAt: w.StartAt.Add(3 * time.Hour)},
		{StartAt: w.StartAt.Add(1 * time.Hour), EndAt: w.StartAt.Add(2*time.Hour + 30*time.Minute)},
	}
	stats := ComputeDay(w, events, nil)

	require.Len(t, stats.BusyBlocks, 1, "overlapping events should merge into one block")
	for i := 1; i < len(stats.BusyBlocks); i++ {
		assert.True(t, stats.BusyBlocks[i-1].EndAt.Before(stats.BusyBlocks[i].StartAt) ||
			stats.BusyBlocks[i-1].EndAt.Equal(stats.BusyBlocks[i].StartAt))
	}
}

func TestComputeDay_FocusBlockClassification(t *testing.T) {
	fh := DefaultFocusHours()
	windows := Windows(mustParse("2026-08-03", fh), mustParse("2026-08-03", fh), fh)
	w := windows[0]

	stats := ComputeDay(w, nil, nil)
	require.NotEmpty(t, stats.FocusBlocks)
	assert.Equal(t, FocusBlockDeep, stats.FocusBlocks[0].Kind)
}

func TestComputeDay_DiscardsFocusBlocksBeforeNow(t *testing.T) {
	fh := DefaultFocusHours()
	windows := Windows(mustParse("2026-08-03", fh), mustParse("2026-08-03", fh), fh)
	w := windows[0]

	now := w.StartAt.Add(6 * time.Hour)
	stats := ComputeDay(w, nil, &now)
	for _, fb := range stats.FocusBlocks {
		assert.False(t, fb.EndAt.Before(now))
	}
}

func mustParse(s string, fh FocusHours) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, fh.Location)
	if err != nil {
		panic(err)
	}
	return t
}
