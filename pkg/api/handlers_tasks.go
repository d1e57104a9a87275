package api

import (
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/services"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// dueSoonWindow is the horizon behind the GET /tasks due_soon filter.
const dueSoonWindow = 72 * time.Hour

func taskServiceInputFromRequest(owner string, req createTaskRequest) services.CreateTaskInput {
	return services.CreateTaskInput{
		OwnerID:             owner,
		Title:               req.Title,
		Description:         req.Description,
		ImplementationID:    req.ImplementationID,
		ProjectID:           req.ProjectID,
		Status:              models.TaskStatus(req.Status),
		Type:                models.TaskType(req.TaskType),
		PriorityScoreBase:   req.PriorityScoreBase,
		EstimatedMinutes:    req.EstimatedMinutes,
		EstimateSource:      models.EstimateSource(req.EstimateSource),
		DueAt:               req.DueAt,
		NeedsReview:         req.NeedsReview,
		Blocker:             req.Blocker,
		WaitingOn:           req.WaitingOn,
		FollowUpAt:          req.FollowUpAt,
		StakeholderMentions: req.StakeholderMentions,
		SourceType:          req.SourceType,
		SourceURL:           req.SourceURL,
		PinnedExcerpt:       req.PinnedExcerpt,
	}
}

// listTasksHandler handles GET /tasks.
func (s *Server) listTasksHandler(c *echo.Context) error {
	owner := auth.OwnerID(c)

	opts := store.ListTasksOptions{
		Status:           models.TaskStatus(c.QueryParam("status")),
		ImplementationID: c.QueryParam("implementation_id"),
		NeedsReviewOnly:  c.QueryParam("needs_review") == "true",
		ExcludeDone:      c.QueryParam("include_done") != "true",
		IncludeDone:      c.QueryParam("include_done") == "true",
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		opts.Offset = offset
	}
	if c.QueryParam("due_soon") == "true" {
		soon := time.Now().UTC().Add(dueSoonWindow)
		opts.DueBefore = &soon
	}

	tasks, err := s.tasks.ListTasks(c.Request().Context(), owner, opts)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toTaskDTOs(tasks))
}

// createTaskHandler handles POST /tasks.
func (s *Server) createTaskHandler(c *echo.Context) error {
	owner := auth.OwnerID(c)

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := s.tasks.CreateTask(c.Request().Context(), taskServiceInputFromRequest(owner, req))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, toTaskDTO(task))
}

// getTaskHandler handles GET /tasks/{id}. Unlike the list endpoint, a
// single-task fetch also returns its checklist items.
func (s *Server) getTaskHandler(c *echo.Context) error {
	owner := auth.OwnerID(c)
	task, err := s.tasks.GetTask(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return mapStoreError(err)
	}

	items, err := s.tasks.ListChecklistItems(c.Request().Context(), owner, task.ID)
	if err != nil {
		return mapStoreError(err)
	}

	dto := toTaskDTO(task)
	dto.ChecklistItems = toChecklistItemDTOs(items)
	return c.JSON(http.StatusOK, dto)
}

// patchTaskHandler handles PATCH /tasks/{id}.
func (s *Server) patchTaskHandler(c *echo.Context) error {
	fields, err := bindPatchFields(c, taskPatchConverters)
	if err != nil {
		return err
	}
	task, err := s.tasks.PatchTask(c.Request().Context(), auth.OwnerID(c), c.Param("id"), fields)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toTaskDTO(task))
}

// deleteTaskHandler handles DELETE /tasks/{id}.
func (s *Server) deleteTaskHandler(c *echo.Context) error {
	if err := s.tasks.DeleteTask(c.Request().Context(), auth.OwnerID(c), c.Param("id")); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// createDependencyHandler handles POST /tasks/{id}/dependencies.
func (s *Server) createDependencyHandler(c *echo.Context) error {
	var req createDependencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	dep, err := s.tasks.CreateDependency(c.Request().Context(), auth.OwnerID(c), c.Param("id"), req.DependsOnTaskID, req.DependsOnCommitmentID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, toDependencyDTO(dep))
}

// listDependenciesHandler handles GET /tasks/{id}/dependencies.
func (s *Server) listDependenciesHandler(c *echo.Context) error {
	deps, err := s.tasks.ListDependencies(c.Request().Context(), auth.OwnerID(c), c.Param("id"))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toDependencyDTOs(deps))
}

// deleteDependencyHandler handles DELETE /tasks/{id}/dependencies/{dep_id}.
func (s *Server) deleteDependencyHandler(c *echo.Context) error {
	if err := s.tasks.DeleteDependency(c.Request().Context(), auth.OwnerID(c), c.Param("dep_id")); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
