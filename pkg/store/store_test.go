package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/test/util"
)

func newTestStore(t *testing.T) *Store {
	pool := util.SetupTestDatabase(t)
	return New(pool)
}

func TestStore_TaskCreateGetPatchDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &models.Task{
		ID:               "task-1",
		OwnerID:          "owner-1",
		Title:            "Write onboarding doc",
		Status:           models.TaskStatusBacklog,
		Type:             models.TaskTypeTask,
		EstimatedMinutes: 30,
		EstimateSource:   models.EstimateSourceDefault,
		SourceType:       "Manual",
	}
	require.NoError(t, s.CreateTask(ctx, task))

	got, err := s.GetTask(ctx, "owner-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, "Write onboarding doc", got.Title)
	assert.Equal(t, models.TaskStatusBacklog, got.Status)

	_, err = s.GetTask(ctx, "owner-2", "task-1")
	assert.ErrorIs(t, err, ErrNotFound)

	newScore := 42.0
	patched, err := s.PatchTask(ctx, "owner-1", "task-1", map[string]any{"status": models.TaskStatusInProgress}, &newScore)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, patched.Status)
	assert.Equal(t, 42.0, patched.PriorityScore)

	_, err = s.PatchTask(ctx, "owner-1", "task-1", map[string]any{"priority_score": 1}, nil)
	assert.Error(t, err, "priority_score is not in the PATCH whitelist")

	require.NoError(t, s.DeleteTask(ctx, "owner-1", "task-1"))
	_, err = s.GetTask(ctx, "owner-1", "task-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TaskDependencyRejectsSelfAndDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"task-a", "task-b"} {
		require.NoError(t, s.CreateTask(ctx, &models.Task{
			ID: id, OwnerID: "owner-1", Title: id, Status: models.TaskStatusBacklog,
			Type: models.TaskTypeTask, SourceType: "Manual",
		}))
	}

	selfID := "task-a"
	err := s.CreateTaskDependency(ctx, &models.TaskDependency{
		ID: "dep-1", OwnerID: "owner-1", TaskID: "task-a", DependsOnTaskID: &selfID,
	})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)

	otherID := "task-b"
	require.NoError(t, s.CreateTaskDependency(ctx, &models.TaskDependency{
		ID: "dep-2", OwnerID: "owner-1", TaskID: "task-a", DependsOnTaskID: &otherID,
	}))

	err = s.CreateTaskDependency(ctx, &models.TaskDependency{
		ID: "dep-3", OwnerID: "owner-1", TaskID: "task-a", DependsOnTaskID: &otherID,
	})
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestStore_ApplicationReorderAssignsRankAndWeight(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := []string{"app-1", "app-2", "app-3"}
	for _, id := range ids {
		require.NoError(t, s.CreateApplication(ctx, &models.Application{
			ID: id, OwnerID: "owner-1", Name: id, Phase: models.PhaseBuild, RAG: models.RAGGreen,
			PriorityWeight: 5,
		}))
	}

	require.NoError(t, s.ReorderApplications(ctx, "owner-1", ids))

	apps, err := s.ListApplications(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, apps, 3)

	byID := map[string]*models.Application{}
	for _, a := range apps {
		byID[a.ID] = a
	}

	require.NotNil(t, byID["app-1"].PortfolioRank)
	assert.Equal(t, 1, *byID["app-1"].PortfolioRank)
	assert.Equal(t, 10.0, byID["app-1"].PriorityWeight)

	assert.Equal(t, 2, *byID["app-2"].PortfolioRank)
	assert.Equal(t, 5.0, byID["app-2"].PriorityWeight)

	assert.Equal(t, 3, *byID["app-3"].PortfolioRank)
	assert.Equal(t, 0.0, byID["app-3"].PriorityWeight)
}

func TestStore_FocusDirectiveOnlyOneActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFocusDirective(ctx, &models.FocusDirective{
		ID: "fd-1", OwnerID: "owner-1", Text: "push nancy's stuff",
		ScopeType: models.ScopeStakeholder, ScopeValue: strPtr("nancy"),
		Strength: models.StrengthStrong, IsActive: true,
	}))
	require.NoError(t, s.CreateFocusDirective(ctx, &models.FocusDirective{
		ID: "fd-2", OwnerID: "owner-1", Text: "focus on migration work",
		ScopeType: models.ScopeQuery, ScopeValue: strPtr("migration"),
		Strength: models.StrengthHard, IsActive: true,
	}))

	active, err := s.GetActiveFocusDirective(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "fd-2", active.ID)

	all, err := s.ListFocusDirectives(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, s.ClearActiveFocusDirective(ctx, "owner-1"))
	_, err = s.GetActiveFocusDirective(ctx, "owner-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_InboxItemDedupeAndLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindInboxItemByDedupeKey(ctx, "owner-1", "hash-1")
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Now().UTC()
	require.NoError(t, s.CreateInboxItem(ctx, &models.InboxItem{
		ID: "inbox-1", OwnerID: "owner-1", DedupeKey: "hash-1",
		ReceivedAt: now, TriageState: models.TriageStateNew,
	}))

	err = s.CreateInboxItem(ctx, &models.InboxItem{
		ID: "inbox-2", OwnerID: "owner-1", DedupeKey: "hash-1", ReceivedAt: now,
	})
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)

	found, err := s.FindInboxItemByDedupeKey(ctx, "owner-1", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "inbox-1", found.ID)

	require.NoError(t, s.UpdateInboxItemExtraction(ctx, "owner-1", "inbox-1",
		map[string]interface{}{"title": "Follow up with Nancy"}, "anthropic-claude-sonnet", 0.82, models.TriageStateProcessed))

	require.NoError(t, s.AppendIngestionEvent(ctx, &models.IngestionEvent{
		ID: "evt-1", OwnerID: "owner-1", InboxItemID: "inbox-1", Kind: models.IngestionEventExtracted,
	}))

	events, err := s.ListIngestionEvents(ctx, "inbox-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.IngestionEventExtracted, events[0].Kind)
}

func TestStore_CalendarEventUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	event := &models.CalendarEvent{
		ID: "cal-1", OwnerID: "owner-1", Source: models.CalendarSourceLocal,
		ExternalEventID: "ext-1", StartAt: start, EndAt: end, Title: "1:1 with Heath",
		ContentHash: "hash-a",
	}
	require.NoError(t, s.UpsertCalendarEvent(ctx, event))

	event.ContentHash = "hash-b"
	event.Title = "1:1 with Heath (moved)"
	require.NoError(t, s.UpsertCalendarEvent(ctx, event))

	events, err := s.ListCalendarEventsInRange(ctx, "owner-1", start.Add(-time.Hour), end.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "hash-b", events[0].ContentHash)
	assert.Equal(t, "1:1 with Heath (moved)", events[0].Title)
}

func TestStore_PlanIsAppendOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mk := func(id string) *models.Plan {
		return &models.Plan{
			ID: id, OwnerID: "owner-1", PlanDate: "2026-08-03", Source: "planner_v1.1",
			InputsSnapshot: map[string]interface{}{"task_count": 1},
			PlanJSON:       map[string]interface{}{"now": nil},
			ReasonsJSON:    map[string]interface{}{},
			Status:         models.PlanStatusProposed,
		}
	}
	require.NoError(t, s.CreatePlan(ctx, mk("plan-1")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.CreatePlan(ctx, mk("plan-2")))

	latest, err := s.LatestPlan(ctx, "owner-1", "2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, "plan-2", latest.ID)
}

func strPtr(s string) *string { return &s }
