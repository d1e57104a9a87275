package services

import (
	"context"
	"errors"
	"time"

	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// FocusService implements /focus and /focus/clear.
type FocusService struct {
	db *store.Store
}

func NewFocusService(db *store.Store) *FocusService {
	return &FocusService{db: db}
}

type CreateFocusDirectiveInput struct {
	OwnerID    string
	Text       string
	ScopeType  models.DirectiveScopeType
	ScopeID    *string
	ScopeValue *string
	Strength   models.DirectiveStrength
	IsActive   bool
}

func (s *FocusService) CreateDirective(ctx context.Context, in CreateFocusDirectiveInput) (*models.FocusDirective, error) {
	if in.Text == "" {
		return nil, &store.ValidationError{Field: "text", Message: "must not be empty"}
	}
	switch in.ScopeType {
	case models.ScopeApplication:
		if in.ScopeID == nil || *in.ScopeID == "" {
			return nil, &store.ValidationError{Field: "scope_id", Message: "required for application scope"}
		}
		if _, err := s.db.GetApplication(ctx, in.OwnerID, *in.ScopeID); err != nil {
			return nil, err
		}
	case models.ScopeStakeholder, models.ScopeTaskType, models.ScopeQuery:
		if in.ScopeValue == nil || *in.ScopeValue == "" {
			return nil, &store.ValidationError{Field: "scope_value", Message: "must not be empty"}
		}
	default:
		return nil, &store.ValidationError{Field: "scope_type", Message: "invalid scope type"}
	}
	if in.Strength == "" {
		in.Strength = models.StrengthNudge
	}

	directive := &models.FocusDirective{
		ID:         newID(),
		OwnerID:    in.OwnerID,
		Text:       in.Text,
		ScopeType:  in.ScopeType,
		ScopeID:    in.ScopeID,
		ScopeValue: in.ScopeValue,
		Strength:   in.Strength,
		IsActive:   in.IsActive,
	}
	if err := s.db.CreateFocusDirective(ctx, directive); err != nil {
		return nil, err
	}
	return directive, nil
}

func (s *FocusService) ListDirectives(ctx context.Context, ownerID string, includeHistory bool) ([]*models.FocusDirective, error) {
	if !includeHistory {
		active, err := s.db.GetActiveFocusDirective(ctx, ownerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []*models.FocusDirective{active}, nil
	}
	return s.db.ListFocusDirectives(ctx, ownerID)
}

// PatchDirective applies whitelisted fields. Activating the directive
// deactivates every other active one for the owner.
func (s *FocusService) PatchDirective(ctx context.Context, ownerID, id string, fields map[string]any) (*models.FocusDirective, error) {
	if activate, ok := fields["is_active"]; ok {
		if activate == true {
			if err := s.db.ClearActiveFocusDirective(ctx, ownerID); err != nil {
				return nil, err
			}
		} else if _, hasEndsAt := fields["ends_at"]; !hasEndsAt {
			current, err := s.db.GetActiveFocusDirective(ctx, ownerID)
			if err == nil && current.ID == id && current.EndsAt == nil {
				now := time.Now().UTC()
				fields["ends_at"] = &now
			}
		}
	}
	return s.db.PatchFocusDirective(ctx, ownerID, id, fields)
}

func (s *FocusService) Clear(ctx context.Context, ownerID string) error {
	return s.db.ClearActiveFocusDirective(ctx, ownerID)
}
