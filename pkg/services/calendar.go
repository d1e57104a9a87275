package services

import (
	"context"
	"time"

	"github.com/bvquist1400/mission-control/pkg/calendar"
	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/sanitize"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// CalendarService implements GET/PATCH /calendar and upstream event
// ingest: range normalization, busy-block/focus-block derivation,
// snapshot+delta computation, and deletion of events that dropped
// out of the source's latest ingest batch.
type CalendarService struct {
	db  *store.Store
	cfg *config.Config
}

func NewCalendarService(db *store.Store, cfg *config.Config) *CalendarService {
	return &CalendarService{db: db, cfg: cfg}
}

func (s *CalendarService) focusHours() calendar.FocusHours {
	wd := s.cfg.Workday
	loc, err := time.LoadLocation(wd.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return calendar.FocusHours{
		StartHour:   wd.FocusStartHour,
		StartMinute: wd.FocusStartMin,
		EndHour:     wd.FocusEndHour,
		EndMinute:   wd.FocusEndMin,
		Location:    loc,
	}
}

// RangeResult is the §6 GET /calendar response shape: per-day stats plus
// the delta against the previous snapshot covering the same range.
type RangeResult struct {
	Days    []calendar.DayStats
	Events  []*models.CalendarEvent
	Changes calendar.Delta
}

// GetRange normalizes [rangeStart,rangeEnd], loads events, computes
// per-day busy/focus blocks relative to now, and diffs the current
// snapshot against the most recent previous one for this exact range.
// A missing previous snapshot (first request for this range) yields an
// empty delta rather than an error.
func (s *CalendarService) GetRange(ctx context.Context, ownerID, rangeStart, rangeEnd string, now time.Time) (*RangeResult, error) {
	fh := s.focusHours()
	start, end, err := calendar.NormalizeRange(rangeStart, rangeEnd, fh)
	if err != nil {
		return nil, &store.ValidationError{Field: "rangeStart/rangeEnd", Message: err.Error()}
	}

	windowEnd := end.AddDate(0, 0, 1)
	events, err := s.db.ListCalendarEventsInRange(ctx, ownerID, start, windowEnd)
	if err != nil {
		return nil, err
	}
	eventModels := make([]models.CalendarEvent, len(events))
	for i, e := range events {
		eventModels[i] = *e
	}

	days := make([]calendar.DayStats, 0)
	for _, window := range calendar.Windows(start, end, fh) {
		days = append(days, calendar.ComputeDay(window, eventModels, &now))
	}

	current := calendar.Snapshot(eventModels)

	var prevEntries []models.SnapshotEntry
	prev, err := s.db.PreviousCalendarSnapshot(ctx, ownerID, rangeStart, rangeEnd)
	if err != nil {
		if _, ok := err.(*store.NotFoundError); !ok {
			return nil, err
		}
	} else {
		prevEntries = prev.PayloadMin
	}
	delta := calendar.ComputeDelta(prevEntries, current)

	if err := s.db.CreateCalendarSnapshot(ctx, &models.CalendarSnapshot{
		ID:         newID(),
		OwnerID:    ownerID,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		PayloadMin: current,
	}); err != nil {
		return nil, err
	}

	return &RangeResult{Days: days, Events: events, Changes: delta}, nil
}

// IngestEvent is one upstream event to upsert, before sanitization and
// content hashing.
type IngestEvent struct {
	ExternalEventID string
	StartAt         time.Time
	EndAt           time.Time
	Title           string
	RawBody         string
	IsAllDay        bool
}

// Ingest upserts a batch of events for (owner, source) scoped to
// [rangeStart, rangeEnd), then removes any previously stored event in
// that window whose external id is absent from the batch, and prunes
// calendar snapshots older than the configured retention horizon.
func (s *CalendarService) Ingest(ctx context.Context, ownerID string, source models.CalendarSource, rangeStart, rangeEnd time.Time, events []IngestEvent) error {
	keepIDs := make([]string, 0, len(events))
	for _, ev := range events {
		body := sanitize.Sanitize(ev.RawBody, 2000)
		hash := calendar.ContentHash(ev.Title, ev.StartAt, ev.EndAt, body)

		var bodyPreview *string
		if body != "" {
			bodyPreview = &body
		}

		if err := s.db.UpsertCalendarEvent(ctx, &models.CalendarEvent{
			ID:              newID(),
			OwnerID:         ownerID,
			Source:          source,
			ExternalEventID: ev.ExternalEventID,
			StartAt:         ev.StartAt,
			EndAt:           ev.EndAt,
			Title:           ev.Title,
			BodyPreview:     bodyPreview,
			IsAllDay:        ev.IsAllDay,
			ContentHash:     hash,
		}); err != nil {
			return err
		}
		keepIDs = append(keepIDs, ev.ExternalEventID)
	}

	if _, err := s.db.RemoveCalendarEventsMissingFrom(ctx, ownerID, source, rangeStart, rangeEnd, keepIDs); err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-s.cfg.Retention.CalendarSnapshotRetention)
	if _, err := s.db.PruneCalendarSnapshots(ctx, cutoff); err != nil {
		if _, ok := err.(*store.MissingRelationError); !ok {
			return err
		}
	}
	return nil
}

const maxMeetingContextChars = 8000

// PatchMeetingContext sets or clears an event's free-text meeting
// context, rejecting anything over the §6 length limit.
func (s *CalendarService) PatchMeetingContext(ctx context.Context, ownerID, eventID string, meetingContext *string) error {
	if meetingContext != nil && len(*meetingContext) > maxMeetingContextChars {
		return &store.ValidationError{Field: "meeting_context", Message: "must be at most 8000 characters"}
	}
	return s.db.SetCalendarEventMeetingContext(ctx, ownerID, eventID, meetingContext)
}
