package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

const calendarEventColumns = `id, owner_id, source, external_event_id, start_at, end_at,
	title, body_preview, is_all_day, content_hash, meeting_context, created_at, updated_at`

func scanCalendarEvent(row pgx.Row) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := row.Scan(
		&e.ID, &e.OwnerID, &e.Source, &e.ExternalEventID, &e.StartAt, &e.EndAt,
		&e.Title, &e.BodyPreview, &e.IsAllDay, &e.ContentHash, &e.MeetingContext,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertCalendarEvent inserts or updates a calendar event keyed by its
// identity (owner_id, source, external_event_id, start_at). A changed
// content_hash on conflict means the upstream event was edited; every
// other field is refreshed along with it.
func (s *Store) UpsertCalendarEvent(ctx context.Context, e *models.CalendarEvent) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO calendar_events (
			id, owner_id, source, external_event_id, start_at, end_at,
			title, body_preview, is_all_day, content_hash, meeting_context
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (owner_id, source, external_event_id, start_at)
		DO UPDATE SET
			end_at = EXCLUDED.end_at,
			title = EXCLUDED.title,
			body_preview = EXCLUDED.body_preview,
			is_all_day = EXCLUDED.is_all_day,
			content_hash = EXCLUDED.content_hash,
			meeting_context = EXCLUDED.meeting_context,
			updated_at = now()`,
		e.ID, e.OwnerID, e.Source, e.ExternalEventID, e.StartAt, e.EndAt,
		e.Title, e.BodyPreview, e.IsAllDay, e.ContentHash, e.MeetingContext,
	)
	if err != nil {
		return ClassifyRelationError("calendar_events", err)
	}
	return nil
}

// RemoveCalendarEventsMissingFrom deletes events for (owner, source) whose
// start_at falls in [rangeStart, rangeEnd) and whose external_event_id is
// not present in keepExternalIDs. Used after an ingest batch to drop
// events the upstream source no longer reports in that window.
func (s *Store) RemoveCalendarEventsMissingFrom(ctx context.Context, ownerID string, source models.CalendarSource, rangeStart, rangeEnd time.Time, keepExternalIDs []string) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM calendar_events
		WHERE owner_id = $1 AND source = $2 AND start_at >= $3 AND start_at < $4
		AND NOT (external_event_id = ANY($5))`,
		ownerID, source, rangeStart, rangeEnd, keepExternalIDs,
	)
	if err != nil {
		return 0, ClassifyRelationError("calendar_events", err)
	}
	return tag.RowsAffected(), nil
}

// ListCalendarEventsInRange returns every event overlapping [start, end)
// for the owner, ordered by start time.
func (s *Store) ListCalendarEventsInRange(ctx context.Context, ownerID string, start, end time.Time) ([]*models.CalendarEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+calendarEventColumns+` FROM calendar_events
		WHERE owner_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`,
		ownerID, start, end,
	)
	if err != nil {
		return nil, ClassifyRelationError("calendar_events", err)
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SetCalendarEventMeetingContext sets or clears an owner-scoped event's
// free-text meeting context.
func (s *Store) SetCalendarEventMeetingContext(ctx context.Context, ownerID, eventID string, meetingContext *string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE calendar_events SET meeting_context = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3`,
		meetingContext, eventID, ownerID,
	)
	if err != nil {
		return ClassifyRelationError("calendar_events", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "calendar_event", ID: eventID}
	}
	return nil
}

// CreateCalendarSnapshot persists a range-request snapshot used for delta
// computation against the next request covering the same range.
func (s *Store) CreateCalendarSnapshot(ctx context.Context, snap *models.CalendarSnapshot) error {
	payload, err := json.Marshal(snap.PayloadMin)
	if err != nil {
		return fmt.Errorf("marshal payload_min: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO calendar_snapshots (id, owner_id, range_start, range_end, payload_min)
		VALUES ($1,$2,$3,$4,$5)`,
		snap.ID, snap.OwnerID, snap.RangeStart, snap.RangeEnd, payload,
	)
	if err != nil {
		return ClassifyRelationError("calendar_snapshots", err)
	}
	return nil
}

// PreviousCalendarSnapshot returns the most recent snapshot for the
// owner covering exactly (rangeStart, rangeEnd), or a *NotFoundError if
// this range has never been snapshotted.
func (s *Store) PreviousCalendarSnapshot(ctx context.Context, ownerID, rangeStart, rangeEnd string) (*models.CalendarSnapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, range_start, range_end, payload_min, created_at
		FROM calendar_snapshots
		WHERE owner_id = $1 AND range_start = $2 AND range_end = $3
		ORDER BY created_at DESC LIMIT 1`,
		ownerID, rangeStart, rangeEnd,
	)

	var snap models.CalendarSnapshot
	var payload []byte
	if err := row.Scan(&snap.ID, &snap.OwnerID, &snap.RangeStart, &snap.RangeEnd, &payload, &snap.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "calendar_snapshot", ID: rangeStart + ".." + rangeEnd}
		}
		return nil, ClassifyRelationError("calendar_snapshots", err)
	}
	if err := json.Unmarshal(payload, &snap.PayloadMin); err != nil {
		return nil, fmt.Errorf("unmarshal payload_min: %w", err)
	}
	return &snap, nil
}

// PruneCalendarSnapshots deletes snapshots older than cutoff, returning
// the number of rows removed.
func (s *Store) PruneCalendarSnapshots(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM calendar_snapshots WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, ClassifyRelationError("calendar_snapshots", err)
	}
	return tag.RowsAffected(), nil
}
