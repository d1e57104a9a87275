package models

import "time"

// TriageState is the lifecycle of an InboxItem.
type TriageState string

const (
	TriageStateNew       TriageState = "New"
	TriageStateProcessed TriageState = "Processed"
	TriageStateError     TriageState = "Error"
)

// InboxItem is the metadata-only record of an inbound intake event.
type InboxItem struct {
	ID                    string
	OwnerID               string
	DedupeKey             string
	Subject               *string
	FromEmail             *string
	FromName              *string
	ReceivedAt            time.Time
	MessageID             *string
	SourceURL             *string
	TriageState           TriageState
	ExtractionJSON        map[string]interface{}
	ExtractionModel       *string
	ExtractionConfidence  *float64
	ProcessingError       *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IngestionEventKind enumerates the append-only audit trail entry kinds.
type IngestionEventKind string

const (
	IngestionEventDeduped     IngestionEventKind = "deduped"
	IngestionEventReceived    IngestionEventKind = "received"
	IngestionEventExtracted   IngestionEventKind = "extracted"
	IngestionEventTaskCreated IngestionEventKind = "task_created"
	IngestionEventError       IngestionEventKind = "error"
)

// IngestionEvent is one entry in the audit trail for an InboxItem.
type IngestionEvent struct {
	ID          string
	OwnerID     string
	InboxItemID string
	Kind        IngestionEventKind
	Detail      *string
	CreatedAt   time.Time
}
