// Package models holds the domain entities persisted by the store facade.
// These types mirror the ent schema definitions in ent/schema but are
// hand-written: the store facade talks to Postgres directly over pgx
// rather than through a generated ent client.
package models

import "time"

// TaskStatus enumerates the lifecycle states of a Task.
type TaskStatus string

const (
	TaskStatusBacklog        TaskStatus = "Backlog"
	TaskStatusPlanned        TaskStatus = "Planned"
	TaskStatusInProgress     TaskStatus = "InProgress"
	TaskStatusBlockedWaiting TaskStatus = "BlockedWaiting"
	TaskStatusDone           TaskStatus = "Done"
)

// IsValid reports whether s is one of the defined task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusPlanned, TaskStatusInProgress, TaskStatusBlockedWaiting, TaskStatusDone:
		return true
	}
	return false
}

// TaskType enumerates the kinds of task the extraction pipeline and the
// user can create.
type TaskType string

const (
	TaskTypeTask        TaskType = "Task"
	TaskTypeTicket      TaskType = "Ticket"
	TaskTypeMeetingPrep TaskType = "MeetingPrep"
	TaskTypeFollowUp    TaskType = "FollowUp"
	TaskTypeAdmin       TaskType = "Admin"
	TaskTypeBuild       TaskType = "Build"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTask, TaskTypeTicket, TaskTypeMeetingPrep, TaskTypeFollowUp, TaskTypeAdmin, TaskTypeBuild:
		return true
	}
	return false
}

// EstimateSource records where estimated_minutes came from.
type EstimateSource string

const (
	EstimateSourceDefault EstimateSource = "default"
	EstimateSourceLLM     EstimateSource = "llm"
	EstimateSourceManual  EstimateSource = "manual"
)

// Task is a unit of work owned by a single user.
type Task struct {
	ID                   string
	OwnerID              string
	Title                string
	Description          *string
	ImplementationID     *string
	ProjectID            *string
	Status               TaskStatus
	Type                 TaskType
	PriorityScore        float64
	EstimatedMinutes     int
	EstimateSource       EstimateSource
	DueAt                *time.Time
	NeedsReview          bool
	Blocker              bool
	WaitingOn            *string
	FollowUpAt           *time.Time
	StakeholderMentions  []string
	SourceType           string
	SourceURL            *string
	InboxItemID          *string
	PinnedExcerpt        *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsTerminal reports whether the task is excluded from ranking collections.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusDone
}

// TaskDependency is a typed edge from a Task to another Task or a Commitment.
type TaskDependency struct {
	ID                    string
	OwnerID               string
	TaskID                string
	DependsOnTaskID       *string
	DependsOnCommitmentID *string
	CreatedAt             time.Time
}

// ChecklistItem is a sub-item of a Task.
type ChecklistItem struct {
	ID        string
	OwnerID   string
	TaskID    string
	Text      string
	Done      bool
	SortOrder int
	CreatedAt time.Time
}
