package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestStore_PingAndWithTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	err := s.WithTx(ctx, func(ctx context.Context, tx *Store) error {
		return tx.CreateApplication(ctx, &models.Application{
			ID: "app-tx-1", OwnerID: "owner-1", Name: "Txn App",
			Phase: models.PhaseIntake, RAG: models.RAGGreen,
		})
	})
	require.NoError(t, err)

	got, err := s.GetApplication(ctx, "owner-1", "app-tx-1")
	require.NoError(t, err)
	assert.Equal(t, "Txn App", got.Name)

	rollbackErr := assert.AnError
	err = s.WithTx(ctx, func(ctx context.Context, tx *Store) error {
		if err := tx.CreateApplication(ctx, &models.Application{
			ID: "app-tx-2", OwnerID: "owner-1", Name: "Rolled Back",
			Phase: models.PhaseIntake, RAG: models.RAGGreen,
		}); err != nil {
			return err
		}
		return rollbackErr
	})
	assert.ErrorIs(t, err, rollbackErr)

	_, err = s.GetApplication(ctx, "owner-1", "app-tx-2")
	assert.ErrorIs(t, err, ErrNotFound, "the transaction should have rolled back")
}

func TestStore_PatchApplicationRejectsUnknownField(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateApplication(ctx, &models.Application{
		ID: "app-1", OwnerID: "owner-1", Name: "Acme", Phase: models.PhaseIntake, RAG: models.RAGGreen,
	}))

	patched, err := s.PatchApplication(ctx, "owner-1", "app-1", map[string]any{"phase": models.PhaseBuild})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseBuild, patched.Phase)

	_, err = s.PatchApplication(ctx, "owner-1", "app-1", map[string]any{"priority_weight": 9})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestStore_PatchFocusDirectiveRejectsUnknownField(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFocusDirective(ctx, &models.FocusDirective{
		ID: "fd-1", OwnerID: "owner-1", Text: "migration push",
		ScopeType: models.ScopeQuery, ScopeValue: strPtr("migration"),
		Strength: models.StrengthNudge, IsActive: false,
	}))

	patched, err := s.PatchFocusDirective(ctx, "owner-1", "fd-1", map[string]any{"strength": models.StrengthStrong})
	require.NoError(t, err)
	assert.Equal(t, models.StrengthStrong, patched.Strength)

	_, err = s.PatchFocusDirective(ctx, "owner-1", "fd-1", map[string]any{"id": "other"})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestStore_StatusUpdateLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateStatusUpdate(ctx, &models.StatusUpdate{
		ID: "su-1", OwnerID: "owner-1", ImplementationID: "impl-1",
		Snippet: "Acme - On track. Next: kickoff. Blocker(s): None.",
		BlockerTaskIDs: []string{"task-a"},
	}))

	updates, err := s.ListStatusUpdates(ctx, "owner-1", "impl-1")
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, []string{"task-a"}, updates[0].BlockerTaskIDs)
}

func TestStore_CommitmentLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCommitment(ctx, &models.Commitment{
		ID: "cm-1", OwnerID: "owner-1", Direction: "ours",
		Stakeholder: "Nancy", Description: "Send updated timeline",
	}))
	require.NoError(t, s.CreateCommitment(ctx, &models.Commitment{
		ID: "cm-2", OwnerID: "owner-1", Direction: "theirs",
		Stakeholder: "Nancy", Description: "Approve budget", Fulfilled: true,
	}))

	all, err := s.ListCommitments(ctx, "owner-1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	unfulfilled, err := s.ListCommitments(ctx, "owner-1", true)
	require.NoError(t, err)
	require.Len(t, unfulfilled, 1)
	assert.Equal(t, "cm-1", unfulfilled[0].ID)

	require.NoError(t, s.SetCommitmentFulfilled(ctx, "owner-1", "cm-1", true))
	unfulfilled, err = s.ListCommitments(ctx, "owner-1", true)
	require.NoError(t, err)
	assert.Empty(t, unfulfilled)

	err = s.SetCommitmentFulfilled(ctx, "owner-1", "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ChecklistItemLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTask(ctx, &models.Task{
		ID: "task-cl", OwnerID: "owner-1", Title: "Ship release notes",
		Status: models.TaskStatusBacklog, Type: models.TaskTypeTask, SourceType: "Manual",
	}))
	require.NoError(t, s.CreateChecklistItem(ctx, &models.ChecklistItem{
		ID: "cl-1", OwnerID: "owner-1", TaskID: "task-cl", Text: "Draft notes", SortOrder: 1,
	}))
	require.NoError(t, s.CreateChecklistItem(ctx, &models.ChecklistItem{
		ID: "cl-2", OwnerID: "owner-1", TaskID: "task-cl", Text: "Get sign-off", SortOrder: 2,
	}))

	items, err := s.ListChecklistItems(ctx, "owner-1", "task-cl")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].Done)

	require.NoError(t, s.SetChecklistItemDone(ctx, "owner-1", "cl-1", true))
	items, err = s.ListChecklistItems(ctx, "owner-1", "task-cl")
	require.NoError(t, err)
	assert.True(t, items[0].Done)

	err = s.SetChecklistItemDone(ctx, "owner-1", "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_MarkPlanApplied(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePlan(ctx, &models.Plan{
		ID: "plan-apply-1", OwnerID: "owner-1", PlanDate: "2026-08-03", Source: "planner_v1.1",
		InputsSnapshot: map[string]interface{}{"task_count": 0},
		PlanJSON:       map[string]interface{}{"now": nil},
		ReasonsJSON:    map[string]interface{}{},
		Status:         models.PlanStatusProposed,
	}))

	require.NoError(t, s.MarkPlanApplied(ctx, "owner-1", "plan-apply-1"))

	latest, err := s.LatestPlan(ctx, "owner-1", "2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusApplied, latest.Status)
	assert.NotNil(t, latest.AppliedAt)

	err = s.MarkPlanApplied(ctx, "owner-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
