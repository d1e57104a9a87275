package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

const inboxItemColumns = `id, owner_id, dedupe_key, subject, from_email, from_name,
	received_at, message_id, source_url, triage_state, extraction_json,
	extraction_model, extraction_confidence, processing_error, created_at, updated_at`

func scanInboxItem(row pgx.Row) (*models.InboxItem, error) {
	var it models.InboxItem
	var extraction []byte
	if err := row.Scan(
		&it.ID, &it.OwnerID, &it.DedupeKey, &it.Subject, &it.FromEmail, &it.FromName,
		&it.ReceivedAt, &it.MessageID, &it.SourceURL, &it.TriageState, &extraction,
		&it.ExtractionModel, &it.ExtractionConfidence, &it.ProcessingError, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(extraction) > 0 {
		if err := json.Unmarshal(extraction, &it.ExtractionJSON); err != nil {
			return nil, fmt.Errorf("unmarshal extraction_json: %w", err)
		}
	}
	return &it, nil
}

// FindInboxItemByDedupeKey returns the existing item for (owner_id,
// dedupe_key), or a *NotFoundError if this message has not been seen
// before. Callers use this to short-circuit the extraction pipeline on
// a replayed webhook.
func (s *Store) FindInboxItemByDedupeKey(ctx context.Context, ownerID, dedupeKey string) (*models.InboxItem, error) {
	row := s.db.QueryRow(ctx, `SELECT `+inboxItemColumns+` FROM inbox_items WHERE owner_id = $1 AND dedupe_key = $2`, ownerID, dedupeKey)
	it, err := scanInboxItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "inbox_item", ID: dedupeKey}
		}
		return nil, ClassifyRelationError("inbox_items", err)
	}
	return it, nil
}

// CreateInboxItem inserts a new inbox item. A unique-violation on
// (owner_id, dedupe_key) surfaces as a *ConflictError: the caller raced
// another request for the same message and should fall back to
// FindInboxItemByDedupeKey.
func (s *Store) CreateInboxItem(ctx context.Context, it *models.InboxItem) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO inbox_items (id, owner_id, dedupe_key, subject, from_email, from_name, received_at, message_id, source_url, triage_state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		it.ID, it.OwnerID, it.DedupeKey, it.Subject, it.FromEmail, it.FromName, it.ReceivedAt, it.MessageID, it.SourceURL, it.TriageState,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &ConflictError{Reason: "inbox item already exists for this dedupe key"}
		}
		return ClassifyRelationError("inbox_items", err)
	}
	return nil
}

// UpdateInboxItemExtraction persists the LLM extraction result and
// advances the item's triage state.
func (s *Store) UpdateInboxItemExtraction(ctx context.Context, ownerID, id string, extraction map[string]interface{}, model string, confidence float64, state models.TriageState) error {
	payload, err := json.Marshal(extraction)
	if err != nil {
		return fmt.Errorf("marshal extraction_json: %w", err)
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE inbox_items SET
			extraction_json = $1, extraction_model = $2, extraction_confidence = $3,
			triage_state = $4, updated_at = now()
		WHERE id = $5 AND owner_id = $6`,
		payload, model, confidence, state, id, ownerID,
	)
	if err != nil {
		return ClassifyRelationError("inbox_items", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "inbox_item", ID: id}
	}
	return nil
}

// MarkInboxItemError records a processing failure and moves the item to
// the Error triage state.
func (s *Store) MarkInboxItemError(ctx context.Context, ownerID, id, processingError string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE inbox_items SET triage_state = $1, processing_error = $2, updated_at = now()
		WHERE id = $3 AND owner_id = $4`,
		models.TriageStateError, processingError, id, ownerID,
	)
	if err != nil {
		return ClassifyRelationError("inbox_items", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "inbox_item", ID: id}
	}
	return nil
}

// AppendIngestionEvent adds an audit trail entry for an inbox item.
func (s *Store) AppendIngestionEvent(ctx context.Context, ev *models.IngestionEvent) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ingestion_events (id, owner_id, inbox_item_id, kind, detail)
		VALUES ($1,$2,$3,$4,$5)`,
		ev.ID, ev.OwnerID, ev.InboxItemID, ev.Kind, ev.Detail,
	)
	if err != nil {
		return ClassifyRelationError("ingestion_events", err)
	}
	return nil
}

// ListIngestionEvents returns an inbox item's audit trail, oldest first.
func (s *Store) ListIngestionEvents(ctx context.Context, inboxItemID string) ([]*models.IngestionEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, inbox_item_id, kind, detail, created_at
		FROM ingestion_events WHERE inbox_item_id = $1 ORDER BY created_at`,
		inboxItemID,
	)
	if err != nil {
		return nil, ClassifyRelationError("ingestion_events", err)
	}
	defer rows.Close()

	var events []*models.IngestionEvent
	for rows.Next() {
		var ev models.IngestionEvent
		if err := rows.Scan(&ev.ID, &ev.OwnerID, &ev.InboxItemID, &ev.Kind, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
