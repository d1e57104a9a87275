package api

import (
	"time"

	"github.com/bvquist1400/mission-control/pkg/briefing"
)

// createTaskRequest is the POST /tasks body.
type createTaskRequest struct {
	Title               string   `json:"title"`
	Description         *string  `json:"description"`
	ImplementationID    *string  `json:"implementation_id"`
	ProjectID           *string  `json:"project_id"`
	Status              string   `json:"status"`
	TaskType             string   `json:"task_type"`
	PriorityScoreBase    float64  `json:"priority_score_base"`
	EstimatedMinutes     int      `json:"estimated_minutes"`
	EstimateSource       string   `json:"estimate_source"`
	DueAt                *time.Time `json:"due_at"`
	NeedsReview          bool     `json:"needs_review"`
	Blocker              bool     `json:"blocker"`
	WaitingOn            *string  `json:"waiting_on"`
	FollowUpAt           *time.Time `json:"follow_up_at"`
	StakeholderMentions  []string `json:"stakeholder_mentions"`
	SourceType           string   `json:"source_type"`
	SourceURL            *string  `json:"source_url"`
	PinnedExcerpt        *string  `json:"pinned_excerpt"`
}

type createDependencyRequest struct {
	DependsOnTaskID       *string `json:"depends_on_task_id"`
	DependsOnCommitmentID *string `json:"depends_on_commitment_id"`
}

type createChecklistItemRequest struct {
	Text      string `json:"text"`
	SortOrder int    `json:"sort_order"`
}

type reorderApplicationsRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

type copyUpdateRequest struct {
	SaveToLog *bool `json:"saveToLog"`
}

type createFocusDirectiveRequest struct {
	Text       string  `json:"text"`
	ScopeType  string  `json:"scope_type"`
	ScopeID    *string `json:"scope_id"`
	ScopeValue *string `json:"scope_value"`
	Strength   string  `json:"strength"`
	IsActive   bool    `json:"is_active"`
}

type planRequest struct {
	PlanDate string `json:"plan_date"`
}

type patchCalendarEventRequest struct {
	EventID        string  `json:"event_id"`
	MeetingContext *string `json:"meeting_context"`
}

type intakeEmailRequest struct {
	Subject     *string `json:"subject"`
	FromEmail   *string `json:"from_email"`
	FromName    *string `json:"from_name"`
	ReceivedAt  *time.Time `json:"received_at"`
	MessageID   *string `json:"message_id"`
	SourceURL   *string `json:"source_url"`
	BodySnippet string  `json:"body_snippet"`
}

// briefingNarrativeRequest's Briefing is the client-echoed aggregation
// from a prior GET /briefing call. The narrative composer trusts its
// task/event content for prompt context but never writes it back to
// storage, so a stale or hand-edited payload can't corrupt state.
type briefingNarrativeRequest struct {
	Briefing briefing.Briefing `json:"briefing"`
}
