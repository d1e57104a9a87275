package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

const focusDirectiveColumns = `id, owner_id, text, scope_type, scope_id, scope_value,
	strength, is_active, starts_at, ends_at, created_at, updated_at`

func scanFocusDirective(row pgx.Row) (*models.FocusDirective, error) {
	var f models.FocusDirective
	if err := row.Scan(
		&f.ID, &f.OwnerID, &f.Text, &f.ScopeType, &f.ScopeID, &f.ScopeValue,
		&f.Strength, &f.IsActive, &f.StartsAt, &f.EndsAt, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFocusDirective inserts a new directive and, if it is active,
// deactivates every other active directive for the owner inside the
// same transaction so at most one directive is ever active at a time.
func (s *Store) CreateFocusDirective(ctx context.Context, f *models.FocusDirective) error {
	return s.WithTx(ctx, func(ctx context.Context, tx *Store) error {
		if f.IsActive {
			if _, err := tx.db.Exec(ctx, `
				UPDATE focus_directives SET is_active = false, ends_at = now(), updated_at = now()
				WHERE owner_id = $1 AND is_active = true`, f.OwnerID,
			); err != nil {
				return ClassifyRelationError("focus_directives", err)
			}
		}

		_, err := tx.db.Exec(ctx, `
			INSERT INTO focus_directives (id, owner_id, text, scope_type, scope_id, scope_value, strength, is_active, starts_at, ends_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			f.ID, f.OwnerID, f.Text, f.ScopeType, f.ScopeID, f.ScopeValue, f.Strength, f.IsActive, f.StartsAt, f.EndsAt,
		)
		if err != nil {
			return ClassifyRelationError("focus_directives", err)
		}
		return nil
	})
}

// GetActiveFocusDirective returns the owner's single active directive,
// or a *NotFoundError if none is active.
func (s *Store) GetActiveFocusDirective(ctx context.Context, ownerID string) (*models.FocusDirective, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+focusDirectiveColumns+` FROM focus_directives
		WHERE owner_id = $1 AND is_active = true
		ORDER BY created_at DESC LIMIT 1`,
		ownerID,
	)
	f, err := scanFocusDirective(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "focus_directive", ID: "active"}
		}
		return nil, ClassifyRelationError("focus_directives", err)
	}
	return f, nil
}

// ListFocusDirectives returns the owner's directive history, newest first.
func (s *Store) ListFocusDirectives(ctx context.Context, ownerID string) ([]*models.FocusDirective, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+focusDirectiveColumns+` FROM focus_directives
		WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, ClassifyRelationError("focus_directives", err)
	}
	defer rows.Close()

	var directives []*models.FocusDirective
	for rows.Next() {
		f, err := scanFocusDirective(rows)
		if err != nil {
			return nil, err
		}
		directives = append(directives, f)
	}
	return directives, rows.Err()
}

var focusDirectivePatchableFields = map[string]bool{
	"text":        true,
	"scope_type":  true,
	"scope_id":    true,
	"scope_value": true,
	"strength":    true,
	"starts_at":   true,
	"ends_at":     true,
	"is_active":   true,
}

// PatchFocusDirective applies fields (restricted to
// focusDirectivePatchableFields) to the owner-scoped directive.
func (s *Store) PatchFocusDirective(ctx context.Context, ownerID, id string, fields map[string]any) (*models.FocusDirective, error) {
	setClauses := []string{"updated_at = now()"}
	args := []any{}

	for field, value := range fields {
		if !focusDirectivePatchableFields[field] {
			return nil, &ValidationError{Field: field, Message: "not a patchable focus directive field"}
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		"UPDATE focus_directives SET %s WHERE id = $%d AND owner_id = $%d RETURNING "+focusDirectiveColumns,
		joinClauses(setClauses), len(args)-1, len(args),
	)

	row := s.db.QueryRow(ctx, query, args...)
	f, err := scanFocusDirective(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "focus_directive", ID: id}
		}
		return nil, ClassifyRelationError("focus_directives", err)
	}
	return f, nil
}

// ClearActiveFocusDirective deactivates the owner's active directive, if any.
func (s *Store) ClearActiveFocusDirective(ctx context.Context, ownerID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE focus_directives SET is_active = false, ends_at = now(), updated_at = now()
		WHERE owner_id = $1 AND is_active = true`, ownerID,
	)
	if err != nil {
		return ClassifyRelationError("focus_directives", err)
	}
	return nil
}
