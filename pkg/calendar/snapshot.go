package calendar

import (
	"sort"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// Snapshot canonicalizes a set of events into the ordered sequence stored
// on a CalendarSnapshot row.
func Snapshot(events []models.CalendarEvent) []models.SnapshotEntry {
	entries := make([]models.SnapshotEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, models.SnapshotEntry{
			ExternalEventID: ev.ExternalEventID,
			StartAt:         ev.StartAt,
			EndAt:           ev.EndAt,
			ContentHash:     ev.ContentHash,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].StartAt.Equal(entries[j].StartAt) {
			return entries[i].StartAt.Before(entries[j].StartAt)
		}
		return entries[i].ExternalEventID < entries[j].ExternalEventID
	})
	return entries
}

// ChangedEntry describes one event whose time and/or content differs
// between two snapshots.
type ChangedEntry struct {
	ExternalEventID string
	TimeChanged     bool
	ContentChanged  bool
}

// Delta is the difference between a previous snapshot and the current one.
type Delta struct {
	Added   []models.SnapshotEntry
	Removed []models.SnapshotEntry
	Changed []ChangedEntry
}

// ComputeDelta diffs prev against current by external_event_id.
func ComputeDelta(prev, current []models.SnapshotEntry) Delta {
	prevByID := make(map[string]models.SnapshotEntry, len(prev))
	for _, e := range prev {
		prevByID[e.ExternalEventID] = e
	}
	currentByID := make(map[string]models.SnapshotEntry, len(current))
	for _, e := range current {
		currentByID[e.ExternalEventID] = e
	}

	var d Delta
	for id, cur := range currentByID {
		p, existed := prevByID[id]
		if !existed {
			d.Added = append(d.Added, cur)
			continue
		}
		timeChanged := !p.StartAt.Equal(cur.StartAt) || !p.EndAt.Equal(cur.EndAt)
		contentChanged := p.ContentHash != cur.ContentHash
		if timeChanged || contentChanged {
			d.Changed = append(d.Changed, ChangedEntry{
				ExternalEventID: id,
				TimeChanged:     timeChanged,
				ContentChanged:  contentChanged,
			})
		}
	}
	for id, p := range prevByID {
		if _, stillPresent := currentByID[id]; !stillPresent {
			d.Removed = append(d.Removed, p)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].ExternalEventID < d.Added[j].ExternalEventID })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i].ExternalEventID < d.Removed[j].ExternalEventID })
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].ExternalEventID < d.Changed[j].ExternalEventID })

	return d
}
