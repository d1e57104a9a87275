package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// taskPatchableFields is the whitelist of columns a caller may update via
// PATCH /tasks/{id}. Anything else in a request body is ignored.
var taskPatchableFields = map[string]bool{
	"title":             true,
	"description":       true,
	"implementation_id": true,
	"status":            true,
	"task_type":         true,
	"estimated_minutes": true,
	"estimate_source":   true,
	"due_at":            true,
	"needs_review":      true,
	"blocker":           true,
	"waiting_on":        true,
	"follow_up_at":      true,
	"pinned_excerpt":    true,
}

const taskColumns = `id, owner_id, title, description, implementation_id, project_id,
	status, task_type, priority_score, estimated_minutes, estimate_source,
	due_at, needs_review, blocker, waiting_on, follow_up_at,
	stakeholder_mentions, source_type, source_url, inbox_item_id,
	pinned_excerpt, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	var stakeholders []byte
	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.ImplementationID, &t.ProjectID,
		&t.Status, &t.Type, &t.PriorityScore, &t.EstimatedMinutes, &t.EstimateSource,
		&t.DueAt, &t.NeedsReview, &t.Blocker, &t.WaitingOn, &t.FollowUpAt,
		&stakeholders, &t.SourceType, &t.SourceURL, &t.InboxItemID,
		&t.PinnedExcerpt, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(stakeholders) > 0 {
		if err := json.Unmarshal(stakeholders, &t.StakeholderMentions); err != nil {
			return nil, fmt.Errorf("unmarshal stakeholder_mentions: %w", err)
		}
	}
	return &t, nil
}

// CreateTask inserts a new task. Its priority_score is computed by the
// caller (the priority package) and passed in through t.PriorityScore.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	stakeholders, err := json.Marshal(t.StakeholderMentions)
	if err != nil {
		return fmt.Errorf("marshal stakeholder_mentions: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO tasks (
			id, owner_id, title, description, implementation_id, project_id,
			status, task_type, priority_score, estimated_minutes, estimate_source,
			due_at, needs_review, blocker, waiting_on, follow_up_at,
			stakeholder_mentions, source_type, source_url, inbox_item_id, pinned_excerpt
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		t.ID, t.OwnerID, t.Title, t.Description, t.ImplementationID, t.ProjectID,
		t.Status, t.Type, t.PriorityScore, t.EstimatedMinutes, t.EstimateSource,
		t.DueAt, t.NeedsReview, t.Blocker, t.WaitingOn, t.FollowUpAt,
		stakeholders, t.SourceType, t.SourceURL, t.InboxItemID, t.PinnedExcerpt,
	)
	if err != nil {
		return ClassifyRelationError("tasks", err)
	}
	return nil
}

// GetTask returns the owner-scoped task or a *NotFoundError.
func (s *Store) GetTask(ctx context.Context, ownerID, id string) (*models.Task, error) {
	row := s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	t, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "task", ID: id}
		}
		return nil, ClassifyRelationError("tasks", err)
	}
	return t, nil
}

// ListTasksOptions filters ListTasks. Zero values are "no filter".
type ListTasksOptions struct {
	Status           models.TaskStatus
	ImplementationID string
	ExcludeDone      bool
	NeedsReviewOnly  bool
	DueBefore        *time.Time
	IncludeDone      bool
	Limit            int
	Offset           int
}

// ListTasks returns every task owned by ownerID matching opts, ordered by
// priority_score descending. IncludeDone overrides ExcludeDone when both
// are set, matching the GET /tasks include_done query param semantics.
func (s *Store) ListTasks(ctx context.Context, ownerID string, opts ListTasksOptions) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`
	args := []any{ownerID}

	if opts.Status != "" {
		args = append(args, opts.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if opts.ImplementationID != "" {
		args = append(args, opts.ImplementationID)
		query += fmt.Sprintf(" AND implementation_id = $%d", len(args))
	}
	if opts.NeedsReviewOnly {
		query += " AND needs_review = true"
	}
	if opts.DueBefore != nil {
		args = append(args, *opts.DueBefore)
		query += fmt.Sprintf(" AND due_at IS NOT NULL AND due_at <= $%d", len(args))
	}
	if opts.ExcludeDone && !opts.IncludeDone {
		query += fmt.Sprintf(" AND status != '%s'", models.TaskStatusDone)
	}
	query += " ORDER BY priority_score DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, ClassifyRelationError("tasks", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// PatchTask applies fields (restricted to taskPatchableFields) to the
// owner-scoped task and returns the updated row. priorityScore, when
// non-nil, is also written: callers recompute it whenever status or
// due_at changes.
func (s *Store) PatchTask(ctx context.Context, ownerID, id string, fields map[string]any, priorityScore *float64) (*models.Task, error) {
	setClauses := []string{"updated_at = now()"}
	args := []any{}

	for field, value := range fields {
		if !taskPatchableFields[field] {
			return nil, &ValidationError{Field: field, Message: "not a patchable task field"}
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	if priorityScore != nil {
		args = append(args, *priorityScore)
		setClauses = append(setClauses, fmt.Sprintf("priority_score = $%d", len(args)))
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d AND owner_id = $%d RETURNING "+taskColumns,
		joinClauses(setClauses), len(args)-1, len(args),
	)

	row := s.db.QueryRow(ctx, query, args...)
	t, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "task", ID: id}
		}
		return nil, ClassifyRelationError("tasks", err)
	}
	return t, nil
}

// DeleteTask removes the owner-scoped task.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return ClassifyRelationError("tasks", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "task", ID: id}
	}
	return nil
}

func joinClauses(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += ", " + c
	}
	return out
}

// CreateTaskDependency links task to a depended-on task or commitment,
// rejecting self-dependencies and duplicates (the unique index on
// (task_id, depends_on_task_id) enforces the latter at the database
// level; this method turns that violation into a *ConflictError).
func (s *Store) CreateTaskDependency(ctx context.Context, d *models.TaskDependency) error {
	if d.DependsOnTaskID != nil && *d.DependsOnTaskID == d.TaskID {
		return &ValidationError{Field: "depends_on_task_id", Message: "a task cannot depend on itself"}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO task_dependencies (id, owner_id, task_id, depends_on_task_id, depends_on_commitment_id)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.OwnerID, d.TaskID, d.DependsOnTaskID, d.DependsOnCommitmentID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &ConflictError{Reason: "dependency already exists"}
		}
		return ClassifyRelationError("task_dependencies", err)
	}
	return nil
}

// ListTaskDependencies returns every dependency edge owned by a task.
func (s *Store) ListTaskDependencies(ctx context.Context, ownerID, taskID string) ([]*models.TaskDependency, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, task_id, depends_on_task_id, depends_on_commitment_id, created_at
		FROM task_dependencies WHERE owner_id = $1 AND task_id = $2`,
		ownerID, taskID,
	)
	if err != nil {
		return nil, ClassifyRelationError("task_dependencies", err)
	}
	defer rows.Close()

	var deps []*models.TaskDependency
	for rows.Next() {
		var d models.TaskDependency
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.TaskID, &d.DependsOnTaskID, &d.DependsOnCommitmentID, &d.CreatedAt); err != nil {
			return nil, err
		}
		deps = append(deps, &d)
	}
	return deps, rows.Err()
}

// DeleteTaskDependency removes a single dependency edge.
func (s *Store) DeleteTaskDependency(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM task_dependencies WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return ClassifyRelationError("task_dependencies", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "task_dependency", ID: id}
	}
	return nil
}

// CreateChecklistItem appends a checklist item to a task.
func (s *Store) CreateChecklistItem(ctx context.Context, c *models.ChecklistItem) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO checklist_items (id, owner_id, task_id, text, done, sort_order)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.OwnerID, c.TaskID, c.Text, c.Done, c.SortOrder,
	)
	if err != nil {
		return ClassifyRelationError("checklist_items", err)
	}
	return nil
}

// ListChecklistItems returns a task's checklist items in sort order.
func (s *Store) ListChecklistItems(ctx context.Context, ownerID, taskID string) ([]*models.ChecklistItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, task_id, text, done, sort_order, created_at
		FROM checklist_items WHERE owner_id = $1 AND task_id = $2 ORDER BY sort_order`,
		ownerID, taskID,
	)
	if err != nil {
		return nil, ClassifyRelationError("checklist_items", err)
	}
	defer rows.Close()

	var items []*models.ChecklistItem
	for rows.Next() {
		var c models.ChecklistItem
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.TaskID, &c.Text, &c.Done, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}

// SetChecklistItemDone toggles a checklist item's done flag.
func (s *Store) SetChecklistItemDone(ctx context.Context, ownerID, id string, done bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE checklist_items SET done = $1 WHERE id = $2 AND owner_id = $3`, done, id, ownerID)
	if err != nil {
		return ClassifyRelationError("checklist_items", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "checklist_item", ID: id}
	}
	return nil
}
