// Package calendar implements range normalization, busy-block merging,
// focus-block classification, and snapshot/delta computation over a
// user's calendar, per the workday window derived from their configured
// focus hours.
package calendar

import (
	"errors"
	"sort"
	"time"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// ErrInvalidRange is returned when a requested date range fails
// normalization (start after end, or window exceeds 31 days).
var ErrInvalidRange = errors.New("InvalidRange")

const maxRangeDays = 31

// FocusHours describes the daily local workday window.
type FocusHours struct {
	StartHour, StartMinute int
	EndHour, EndMinute     int
	Location               *time.Location
}

// DefaultFocusHours is 08:00-16:30 America/New_York.
func DefaultFocusHours() FocusHours {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return FocusHours{StartHour: 8, StartMinute: 0, EndHour: 16, EndMinute: 30, Location: loc}
}

// DayWindow is one day's UTC workday bounds.
type DayWindow struct {
	Date    string // YYYY-MM-DD in the workday timezone
	StartAt time.Time
	EndAt   time.Time
}

// NormalizeRange validates rangeStart <= rangeEnd and window <= 31 days,
// both in YYYY-MM-DD form, and returns the parsed bounds.
func NormalizeRange(rangeStart, rangeEnd string, fh FocusHours) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", rangeStart, fh.Location)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	end, err := time.ParseInLocation("2006-01-02", rangeEnd, fh.Location)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	if end.Sub(start) > (maxRangeDays-1)*24*time.Hour {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

// Windows builds one DayWindow per calendar day between start and end
// (inclusive), converted to UTC from the configured focus hours.
func Windows(start, end time.Time, fh FocusHours) []DayWindow {
	var windows []DayWindow
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), fh.StartHour, fh.StartMinute, 0, 0, fh.Location)
		dayEnd := time.Date(d.Year(), d.Month(), d.Day(), fh.EndHour, fh.EndMinute, 0, 0, fh.Location)
		windows = append(windows, DayWindow{
			Date:    d.Format("2006-01-02"),
			StartAt: dayStart.UTC(),
			EndAt:   dayEnd.UTC(),
		})
	}
	return windows
}

// BusyBlock is a clipped, merged interval of calendar activity within a
// day window.
type BusyBlock struct {
	StartAt time.Time
	EndAt   time.Time
}

// FocusBlockKind classifies a gap in the workday window by duration.
type FocusBlockKind string

const (
	FocusBlockDeep    FocusBlockKind = "deep"
	FocusBlockShallow FocusBlockKind = "shallow"
	FocusBlockPrep    FocusBlockKind = "prep"
)

// FocusBlock is a gap in the workday window >= 10 minutes.
type FocusBlock struct {
	StartAt time.Time
	EndAt   time.Time
	Minutes int
	Kind    FocusBlockKind
}

// DayStats summarizes one day's merged busy time.
type DayStats struct {
	Window                   DayWindow
	BusyBlocks               []BusyBlock
	BusyMinutes              int
	Blocks                   int
	LargestFocusBlockMinutes int
	FocusBlocks              []FocusBlock
}

// ComputeDay clips events to the window, merges overlapping/adjacent
// intervals, and derives focus blocks. If now lies inside the window,
// focus blocks entirely before now are discarded.
func ComputeDay(window DayWindow, events []models.CalendarEvent, now *time.Time) DayStats {
	var clipped []BusyBlock
	for _, ev := range events {
		s, e := ev.StartAt, ev.EndAt
		if s.Before(window.StartAt) {
			s = window.StartAt
		}
		if e.After(window.EndAt) {
			e = window.EndAt
		}
		if s.Before(e) {
			clipped = append(clipped, BusyBlock{StartAt: s, EndAt: e})
		}
	}
	sort.SliceStable(clipped, func(i, j int) bool { return clipped[i].StartAt.Before(clipped[j].StartAt) })

	merged := mergeBlocks(clipped)

	busyMinutes := 0
	for _, b := range merged {
		busyMinutes += int(b.EndAt.Sub(b.StartAt).Minutes())
	}

	focusBlocks := deriveFocusBlocks(window, merged, now)
	largest := 0
	for _, fb := range focusBlocks {
		if fb.Minutes > largest {
			largest = fb.Minutes
		}
	}

	return DayStats{
		Window:                   window,
		BusyBlocks:               merged,
		BusyMinutes:              busyMinutes,
		Blocks:                   len(merged),
		LargestFocusBlockMinutes: largest,
		FocusBlocks:              focusBlocks,
	}
}

func mergeBlocks(sorted []BusyBlock) []BusyBlock {
	if len(sorted) == 0 {
		return nil
	}
	merged := []BusyBlock{sorted[0]}
	for _, b := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !b.StartAt.After(last.EndAt) {
			if b.EndAt.After(last.EndAt) {
				last.EndAt = b.EndAt
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

func deriveFocusBlocks(window DayWindow, busy []BusyBlock, now *time.Time) []FocusBlock {
	var gaps []FocusBlock
	cursor := window.StartAt
	for _, b := range busy {
		if b.StartAt.After(cursor) {
			gaps = append(gaps, gapBlock(cursor, b.StartAt))
		}
		if b.EndAt.After(cursor) {
			cursor = b.EndAt
		}
	}
	if window.EndAt.After(cursor) {
		gaps = append(gaps, gapBlock(cursor, window.EndAt))
	}

	var result []FocusBlock
	for _, g := range gaps {
		if g.Minutes < 10 {
			continue
		}
		if now != nil && g.EndAt.Before(*now) {
			continue
		}
		if now != nil && g.StartAt.Before(*now) && now.Before(g.EndAt) {
			g.StartAt = *now
			g.Minutes = int(g.EndAt.Sub(g.StartAt).Minutes())
		}
		g.Kind = classify(g.Minutes)
		result = append(result, g)
	}
	return result
}

func gapBlock(start, end time.Time) FocusBlock {
	return FocusBlock{StartAt: start, EndAt: end, Minutes: int(end.Sub(start).Minutes())}
}

func classify(minutes int) FocusBlockKind {
	switch {
	case minutes >= 45:
		return FocusBlockDeep
	case minutes >= 20:
		return FocusBlockShallow
	default:
		return FocusBlockPrep
	}
}
