package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// ApplicationService implements /applications, /applications/reorder,
// and /implementations/{id}/copy-update.
type ApplicationService struct {
	db *store.Store
}

func NewApplicationService(db *store.Store) *ApplicationService {
	return &ApplicationService{db: db}
}

type CreateApplicationInput struct {
	OwnerID      string
	Name         string
	Phase        models.ApplicationPhase
	RAG          models.RAGStatus
	Stakeholders []string
	Keywords     []string
}

func (s *ApplicationService) CreateApplication(ctx context.Context, in CreateApplicationInput) (*models.Application, error) {
	if in.Name == "" {
		return nil, &store.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if in.Phase == "" {
		in.Phase = models.PhaseIntake
	}
	if in.RAG == "" {
		in.RAG = models.RAGGreen
	}

	app := &models.Application{
		ID:             newID(),
		OwnerID:        in.OwnerID,
		Name:           in.Name,
		Phase:          in.Phase,
		RAG:            in.RAG,
		PriorityWeight: 5,
		Stakeholders:   in.Stakeholders,
		Keywords:       in.Keywords,
	}
	if err := s.db.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, ownerID, id string) (*models.Application, error) {
	return s.db.GetApplication(ctx, ownerID, id)
}

func (s *ApplicationService) ListApplications(ctx context.Context, ownerID string) ([]*models.Application, error) {
	return s.db.ListApplications(ctx, ownerID)
}

func (s *ApplicationService) PatchApplication(ctx context.Context, ownerID, id string, fields map[string]any) (*models.Application, error) {
	return s.db.PatchApplication(ctx, ownerID, id, fields)
}

// Reorder assigns portfolio_rank and priority_weight to every
// application in orderedIDs, which must be a permutation of the owner's
// application ids (§6 /applications/reorder, §8 property 4).
func (s *ApplicationService) Reorder(ctx context.Context, ownerID string, orderedIDs []string) error {
	existing, err := s.db.ListApplications(ctx, ownerID)
	if err != nil {
		return err
	}

	existingIDs := make(map[string]bool, len(existing))
	for _, a := range existing {
		existingIDs[a.ID] = true
	}
	if len(orderedIDs) != len(existing) {
		return &store.ValidationError{Field: "ordered_ids", Message: "must be a permutation of the owner's applications"}
	}
	seen := map[string]bool{}
	for _, id := range orderedIDs {
		if !existingIDs[id] || seen[id] {
			return &store.ValidationError{Field: "ordered_ids", Message: "must be a permutation of the owner's applications"}
		}
		seen[id] = true
	}

	return s.db.ReorderApplications(ctx, ownerID, orderedIDs)
}

// CopyUpdate generates the Teams-ready status snippet per §6 and,
// unless saveToLog is explicitly false, appends it to the status log.
func (s *ApplicationService) CopyUpdate(ctx context.Context, ownerID, implementationID string, saveToLog bool) (*models.StatusUpdate, error) {
	app, err := s.db.GetApplication(ctx, ownerID, implementationID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.db.ListTasks(ctx, ownerID, store.ListTasksOptions{ImplementationID: implementationID, ExcludeDone: true})
	if err != nil {
		return nil, err
	}

	var blockerIDs []string
	var blockerTitles []string
	for _, t := range tasks {
		if t.Blocker {
			blockerIDs = append(blockerIDs, t.ID)
			blockerTitles = append(blockerTitles, t.Title)
		}
	}

	summary := "Status update pending."
	if app.StatusSummary != nil && *app.StatusSummary != "" {
		summary = *app.StatusSummary
	}

	milestone := ""
	if app.NextMilestone != nil && *app.NextMilestone != "" {
		milestone = *app.NextMilestone
		if app.TargetDate != nil {
			milestone += " (" + app.TargetDate.Format("2006-01-02") + ")"
		}
	} else {
		milestone = "TBD"
	}

	blockers := "None"
	if len(blockerTitles) > 0 {
		shown := blockerTitles
		suffix := ""
		if len(shown) > 3 {
			shown = shown[:3]
			suffix = "..."
		}
		blockers = strings.Join(shown, "; ") + suffix
	}

	snippet := fmt.Sprintf("%s — %s (%s). %s Next: %s. Blocker(s): %s.",
		app.Name, app.Phase, app.RAG, summary, milestone, blockers)

	update := &models.StatusUpdate{
		ID:               newID(),
		OwnerID:          ownerID,
		ImplementationID: implementationID,
		Snippet:          snippet,
		BlockerTaskIDs:   blockerIDs,
		CreatedAt:        time.Now().UTC(),
	}

	if saveToLog {
		if err := s.db.CreateStatusUpdate(ctx, update); err != nil {
			return nil, err
		}
	}
	return update, nil
}
