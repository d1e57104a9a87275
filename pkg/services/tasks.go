package services

import (
	"context"
	"time"

	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/priority"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// TaskService implements the owner-scoped task operations behind
// /tasks: creation with priority computation, the PATCH whitelist with
// recompute-on-status/due-change, and dependency management including
// circular-dependency rejection.
type TaskService struct {
	db  *store.Store
	cfg *config.Config
}

func NewTaskService(db *store.Store, cfg *config.Config) *TaskService {
	return &TaskService{db: db, cfg: cfg}
}

// CreateTaskInput is the validated request shape for POST /tasks. The
// extraction pipeline also constructs one directly for LLM-sourced
// tasks, which is why EstimateSource, NeedsReview, and InboxItemID are
// settable here rather than always defaulted.
type CreateTaskInput struct {
	OwnerID              string
	Title                string
	Description          *string
	ImplementationID     *string
	ProjectID            *string
	Status               models.TaskStatus
	Type                 models.TaskType
	PriorityScoreBase    float64
	EstimatedMinutes     int
	EstimateSource       models.EstimateSource
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
}

// CreateTask validates and inserts a new task, computing its initial
// priority_score via the priority kernel (no implementation/directive
// multiplier applies until the task is scored by the planner; creation
// uses a neutral 1x multiplier and no fit bonus).
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, &store.ValidationError{Field: "title", Message: "must not be empty"}
	}
	if in.EstimatedMinutes == 0 {
		in.EstimatedMinutes = 30
	}
	if in.EstimatedMinutes < 1 || in.EstimatedMinutes > 480 {
		return nil, &store.ValidationError{Field: "estimated_minutes", Message: "must be in [1,480]"}
	}
	if in.Status == "" {
		in.Status = models.TaskStatusBacklog
	}
	if !in.Status.IsValid() {
		return nil, &store.ValidationError{Field: "status", Message: "invalid status"}
	}
	if in.Type == "" {
		in.Type = models.TaskTypeTask
	}
	if !in.Type.IsValid() {
		return nil, &store.ValidationError{Field: "task_type", Message: "invalid task type"}
	}
	if in.SourceType == "" {
		in.SourceType = "Manual"
	}
	if in.EstimateSource == "" {
		in.EstimateSource = models.EstimateSourceManual
	}

	now := time.Now().UTC()
	result := priority.Score(priority.Input{
		PriorityScoreBase:       in.PriorityScoreBase,
		DueAt:                   in.DueAt,
		FollowUpAt:              in.FollowUpAt,
		WaitingOn:               in.WaitingOn,
		Status:                  in.Status,
		UpdatedAt:               now,
		StakeholderMentions:     in.StakeholderMentions,
		Now:                     now,
		HighPriorityStakeholders: s.cfg.Priority.HighPriorityStakeholders,
	})

	task := &models.Task{
		ID:                  newID(),
		OwnerID:             in.OwnerID,
		Title:               in.Title,
		Description:         in.Description,
		ImplementationID:    in.ImplementationID,
		ProjectID:           in.ProjectID,
		Status:              in.Status,
		Type:                in.Type,
		PriorityScore:       result.FinalScore,
		EstimatedMinutes:    in.EstimatedMinutes,
		EstimateSource:      in.EstimateSource,
		DueAt:               in.DueAt,
		NeedsReview:         in.NeedsReview,
		Blocker:             in.Blocker,
		WaitingOn:           in.WaitingOn,
		FollowUpAt:          in.FollowUpAt,
		StakeholderMentions: in.StakeholderMentions,
		SourceType:          in.SourceType,
		SourceURL:           in.SourceURL,
		InboxItemID:         in.InboxItemID,
		PinnedExcerpt:       in.PinnedExcerpt,
	}

	if err := s.db.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, id string) (*models.Task, error) {
	return s.db.GetTask(ctx, ownerID, id)
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID string, opts store.ListTasksOptions) ([]*models.Task, error) {
	return s.db.ListTasks(ctx, ownerID, opts)
}

// PatchTask applies fields to a task. When the patch touches status or
// due_at, priority_score is recomputed per the §3 invariant.
func (s *TaskService) PatchTask(ctx context.Context, ownerID, id string, fields map[string]any) (*models.Task, error) {
	current, err := s.db.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	_, touchesStatus := fields["status"]
	_, touchesDueAt := fields["due_at"]

	var recomputed *float64
	if touchesStatus || touchesDueAt {
		status := current.Status
		if v, ok := fields["status"]; ok {
			status = v.(models.TaskStatus)
		}
		dueAt := current.DueAt
		if v, ok := fields["due_at"]; ok {
			dueAt, _ = v.(*time.Time)
		}

		now := time.Now().UTC()
		result := priority.Score(priority.Input{
			PriorityScoreBase:       current.PriorityScore,
			DueAt:                   dueAt,
			FollowUpAt:              current.FollowUpAt,
			WaitingOn:               current.WaitingOn,
			Status:                  status,
			UpdatedAt:               now,
			StakeholderMentions:     current.StakeholderMentions,
			Now:                     now,
			HighPriorityStakeholders: s.cfg.Priority.HighPriorityStakeholders,
		})
		recomputed = &result.FinalScore
	}

	return s.db.PatchTask(ctx, ownerID, id, fields, recomputed)
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id string) error {
	return s.db.DeleteTask(ctx, ownerID, id)
}

// CreateDependency links task to another task or a commitment, rejecting
// a self-dependency (enforced in the store), duplicates (409 via
// *store.ConflictError), and circular task-to-task dependencies.
func (s *TaskService) CreateDependency(ctx context.Context, ownerID, taskID string, dependsOnTaskID, dependsOnCommitmentID *string) (*models.TaskDependency, error) {
	if (dependsOnTaskID == nil) == (dependsOnCommitmentID == nil) {
		return nil, &store.ValidationError{Field: "depends_on", Message: "exactly one of depends_on_task_id/depends_on_commitment_id is required"}
	}

	if dependsOnTaskID != nil {
		if err := s.checkCircular(ctx, ownerID, taskID, *dependsOnTaskID); err != nil {
			return nil, err
		}
	}

	dep := &models.TaskDependency{
		ID:                    newID(),
		OwnerID:               ownerID,
		TaskID:                taskID,
		DependsOnTaskID:       dependsOnTaskID,
		DependsOnCommitmentID: dependsOnCommitmentID,
	}
	if err := s.db.CreateTaskDependency(ctx, dep); err != nil {
		return nil, err
	}
	return dep, nil
}

// checkCircular walks the dependency graph starting from target; if it
// ever reaches taskID, adding task->target would close a cycle.
func (s *TaskService) checkCircular(ctx context.Context, ownerID, taskID, target string) error {
	visited := map[string]bool{}
	queue := []string{target}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == taskID {
			return &store.ValidationError{Field: "depends_on_task_id", Message: "Cannot create circular dependency"}
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		deps, err := s.db.ListTaskDependencies(ctx, ownerID, current)
		if err != nil {
			return err
		}
		for _, d := range deps {
			if d.DependsOnTaskID != nil {
				queue = append(queue, *d.DependsOnTaskID)
			}
		}
	}
	return nil
}

func (s *TaskService) ListDependencies(ctx context.Context, ownerID, taskID string) ([]*models.TaskDependency, error) {
	return s.db.ListTaskDependencies(ctx, ownerID, taskID)
}

func (s *TaskService) DeleteDependency(ctx context.Context, ownerID, id string) error {
	return s.db.DeleteTaskDependency(ctx, ownerID, id)
}

// AddChecklistItem appends one checklist item to a task.
func (s *TaskService) AddChecklistItem(ctx context.Context, ownerID, taskID, text string, sortOrder int) (*models.ChecklistItem, error) {
	item := &models.ChecklistItem{
		ID:        newID(),
		OwnerID:   ownerID,
		TaskID:    taskID,
		Text:      text,
		SortOrder: sortOrder,
	}
	if err := s.db.CreateChecklistItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListChecklistItems returns a task's checklist items in sort order.
func (s *TaskService) ListChecklistItems(ctx context.Context, ownerID, taskID string) ([]*models.ChecklistItem, error) {
	return s.db.ListChecklistItems(ctx, ownerID, taskID)
}
