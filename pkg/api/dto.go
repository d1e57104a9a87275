package api

import (
	"time"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// taskDTO is the wire shape for a Task.
type taskDTO struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         *string    `json:"description,omitempty"`
	ImplementationID    *string    `json:"implementation_id,omitempty"`
	ProjectID           *string    `json:"project_id,omitempty"`
	Status              string     `json:"status"`
	TaskType            string     `json:"task_type"`
	PriorityScore       float64    `json:"priority_score"`
	EstimatedMinutes    int        `json:"estimated_minutes"`
	EstimateSource      string     `json:"estimate_source"`
	DueAt               *time.Time `json:"due_at,omitempty"`
	NeedsReview         bool       `json:"needs_review"`
	Blocker             bool       `json:"blocker"`
	WaitingOn           *string    `json:"waiting_on,omitempty"`
	FollowUpAt          *time.Time `json:"follow_up_at,omitempty"`
	StakeholderMentions []string   `json:"stakeholder_mentions"`
	SourceType          string     `json:"source_type"`
	SourceURL           *string    `json:"source_url,omitempty"`
	PinnedExcerpt       *string    `json:"pinned_excerpt,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ChecklistItems      []checklistItemDTO `json:"checklist_items,omitempty"`
}

type taskDependencyDTO struct {
	ID                    string `json:"id"`
	TaskID                string `json:"task_id"`
	DependsOnTaskID       *string `json:"depends_on_task_id,omitempty"`
	DependsOnCommitmentID *string `json:"depends_on_commitment_id,omitempty"`
}

type checklistItemDTO struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	SortOrder int    `json:"sort_order"`
}

type applicationDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phase          string     `json:"phase"`
	RAG            string     `json:"rag"`
	PriorityWeight float64    `json:"priority_weight"`
	PortfolioRank  *int       `json:"portfolio_rank,omitempty"`
	Stakeholders   []string   `json:"stakeholders"`
	Keywords       []string   `json:"keywords"`
	StatusSummary  *string    `json:"status_summary,omitempty"`
	NextMilestone  *string    `json:"next_milestone,omitempty"`
	TargetDate     *time.Time `json:"target_date,omitempty"`
}

type statusUpdateDTO struct {
	ID               string    `json:"id"`
	ImplementationID string    `json:"implementation_id"`
	Snippet          string    `json:"snippet"`
	BlockerTaskIDs   []string  `json:"blocker_task_ids"`
	CreatedAt        time.Time `json:"created_at"`
}

type focusDirectiveDTO struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	ScopeType  string     `json:"scope_type"`
	ScopeID    *string    `json:"scope_id,omitempty"`
	ScopeValue *string    `json:"scope_value,omitempty"`
	Strength   string     `json:"strength"`
	IsActive   bool       `json:"is_active"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
}

type calendarEventDTO struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	ExternalEventID string    `json:"external_event_id"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Title           string    `json:"title"`
	IsAllDay        bool      `json:"is_all_day"`
	MeetingContext  *string   `json:"meeting_context,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func toTaskDTO(t *models.Task) taskDTO {
	return taskDTO{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		ImplementationID:    t.ImplementationID,
		ProjectID:           t.ProjectID,
		Status:              string(t.Status),
		TaskType:            string(t.Type),
		PriorityScore:       t.PriorityScore,
		EstimatedMinutes:    t.EstimatedMinutes,
		EstimateSource:      string(t.EstimateSource),
		DueAt:               t.DueAt,
		NeedsReview:         t.NeedsReview,
		Blocker:             t.Blocker,
		WaitingOn:           t.WaitingOn,
		FollowUpAt:          t.FollowUpAt,
		StakeholderMentions: t.StakeholderMentions,
		SourceType:          t.SourceType,
		SourceURL:           t.SourceURL,
		PinnedExcerpt:       t.PinnedExcerpt,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func toTaskDTOs(tasks []*models.Task) []taskDTO {
	out := make([]taskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskDTO(t)
	}
	return out
}

func toDependencyDTO(d *models.TaskDependency) taskDependencyDTO {
	return taskDependencyDTO{
		ID:                    d.ID,
		TaskID:                d.TaskID,
		DependsOnTaskID:       d.DependsOnTaskID,
		DependsOnCommitmentID: d.DependsOnCommitmentID,
	}
}

func toDependencyDTOs(deps []*models.TaskDependency) []taskDependencyDTO {
	out := make([]taskDependencyDTO, len(deps))
	for i, d := range deps {
		out[i] = toDependencyDTO(d)
	}
	return out
}

func toChecklistItemDTO(c *models.ChecklistItem) checklistItemDTO {
	return checklistItemDTO{ID: c.ID, TaskID: c.TaskID, Text: c.Text, Done: c.Done, SortOrder: c.SortOrder}
}

func toChecklistItemDTOs(items []*models.ChecklistItem) []checklistItemDTO {
	out := make([]checklistItemDTO, len(items))
	for i, c := range items {
		out[i] = toChecklistItemDTO(c)
	}
	return out
}

func toApplicationDTO(a *models.Application) applicationDTO {
	return applicationDTO{
		ID:             a.ID,
		Name:           a.Name,
		Phase:          string(a.Phase),
		RAG:            string(a.RAG),
		PriorityWeight: a.PriorityWeight,
		PortfolioRank:  a.PortfolioRank,
		Stakeholders:   a.Stakeholders,
		Keywords:       a.Keywords,
		StatusSummary:  a.StatusSummary,
		NextMilestone:  a.NextMilestone,
		TargetDate:     a.TargetDate,
	}
}

func toApplicationDTOs(apps []*models.Application) []applicationDTO {
	out := make([]applicationDTO, len(apps))
	for i, a := range apps {
		out[i] = toApplicationDTO(a)
	}
	return out
}

func toStatusUpdateDTO(u *models.StatusUpdate) statusUpdateDTO {
	return statusUpdateDTO{
		ID:               u.ID,
		ImplementationID: u.ImplementationID,
		Snippet:          u.Snippet,
		BlockerTaskIDs:   u.BlockerTaskIDs,
		CreatedAt:        u.CreatedAt,
	}
}

func toFocusDirectiveDTO(f *models.FocusDirective) focusDirectiveDTO {
	return focusDirectiveDTO{
		ID:         f.ID,
		Text:       f.Text,
		ScopeType:  string(f.ScopeType),
		ScopeID:    f.ScopeID,
		ScopeValue: f.ScopeValue,
		Strength:   string(f.Strength),
		IsActive:   f.IsActive,
		StartsAt:   f.StartsAt,
		EndsAt:     f.EndsAt,
	}
}

func toFocusDirectiveDTOs(directives []*models.FocusDirective) []focusDirectiveDTO {
	out := make([]focusDirectiveDTO, len(directives))
	for i, f := range directives {
		out[i] = toFocusDirectiveDTO(f)
	}
	return out
}

func toCalendarEventDTO(e *models.CalendarEvent) calendarEventDTO {
	return calendarEventDTO{
		ID:              e.ID,
		Source:          string(e.Source),
		ExternalEventID: e.ExternalEventID,
		StartAt:         e.StartAt,
		EndAt:           e.EndAt,
		Title:           e.Title,
		IsAllDay:        e.IsAllDay,
		MeetingContext:  e.MeetingContext,
	}
}

func toCalendarEventDTOs(events []*models.CalendarEvent) []calendarEventDTO {
	out := make([]calendarEventDTO, len(events))
	for i, e := range events {
		out[i] = toCalendarEventDTO(e)
	}
	return out
}
