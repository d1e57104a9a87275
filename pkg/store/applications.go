package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

const applicationColumns = `id, owner_id, name, phase, rag, priority_weight, portfolio_rank,
	stakeholders, keywords, status_summary, next_milestone, target_date, created_at, updated_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	var stakeholders, keywords []byte
	if err := row.Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Phase, &a.RAG, &a.PriorityWeight, &a.PortfolioRank,
		&stakeholders, &keywords, &a.StatusSummary, &a.NextMilestone, &a.TargetDate,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(stakeholders) > 0 {
		if err := json.Unmarshal(stakeholders, &a.Stakeholders); err != nil {
			return nil, fmt.Errorf("unmarshal stakeholders: %w", err)
		}
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &a.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	return &a, nil
}

// CreateApplication inserts a new application. New applications start
// unranked (portfolio_rank NULL) until the owner includes them in a
// reorder.
func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	stakeholders, err := json.Marshal(a.Stakeholders)
	if err != nil {
		return fmt.Errorf("marshal stakeholders: %w", err)
	}
	keywords, err := json.Marshal(a.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO applications (
			id, owner_id, name, phase, rag, priority_weight, portfolio_rank,
			stakeholders, keywords, status_summary, next_milestone, target_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.OwnerID, a.Name, a.Phase, a.RAG, a.PriorityWeight, a.PortfolioRank,
		stakeholders, keywords, a.StatusSummary, a.NextMilestone, a.TargetDate,
	)
	if err != nil {
		return ClassifyRelationError("applications", err)
	}
	return nil
}

// GetApplication returns the owner-scoped application or a *NotFoundError.
func (s *Store) GetApplication(ctx context.Context, ownerID, id string) (*models.Application, error) {
	row := s.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND owner_id = $2`, id, ownerID)
	a, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "application", ID: id}
		}
		return nil, ClassifyRelationError("applications", err)
	}
	return a, nil
}

// ListApplications returns every application owned by ownerID, ranked
// applications first in portfolio_rank order, then unranked applications
// by name.
func (s *Store) ListApplications(ctx context.Context, ownerID string) ([]*models.Application, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE owner_id = $1
		ORDER BY portfolio_rank IS NULL, portfolio_rank, name`,
		ownerID,
	)
	if err != nil {
		return nil, ClassifyRelationError("applications", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

var applicationPatchableFields = map[string]bool{
	"name":           true,
	"phase":          true,
	"rag":            true,
	"status_summary": true,
	"next_milestone": true,
	"target_date":    true,
}

// PatchApplication applies fields (restricted to applicationPatchableFields).
func (s *Store) PatchApplication(ctx context.Context, ownerID, id string, fields map[string]any) (*models.Application, error) {
	setClauses := []string{"updated_at = now()"}
	args := []any{}

	for field, value := range fields {
		if !applicationPatchableFields[field] {
			return nil, &ValidationError{Field: field, Message: "not a patchable application field"}
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		"UPDATE applications SET %s WHERE id = $%d AND owner_id = $%d RETURNING "+applicationColumns,
		joinClauses(setClauses), len(args)-1, len(args),
	)

	row := s.db.QueryRow(ctx, query, args...)
	a, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "application", ID: id}
		}
		return nil, ClassifyRelationError("applications", err)
	}
	return a, nil
}

// ReorderApplications assigns portfolio_rank = index+1 and
// priority_weight = clamp(round(10 - 10*index/(n-1)), 0, 10) to each
// application in orderedIDs, in the order given. It runs inside a single
// transaction and temporarily clears every rank to NULL first so the
// unique (owner_id, portfolio_rank) index never sees a transient
// duplicate while ranks are being reassigned.
func (s *Store) ReorderApplications(ctx context.Context, ownerID string, orderedIDs []string) error {
	return s.WithTx(ctx, func(ctx context.Context, tx *Store) error {
		if _, err := tx.db.Exec(ctx, `UPDATE applications SET portfolio_rank = NULL WHERE owner_id = $1`, ownerID); err != nil {
			return ClassifyRelationError("applications", err)
		}

		n := len(orderedIDs)
		for i, id := range orderedIDs {
			rank := i + 1
			weight := 10.0
			if n > 1 {
				weight = clampFloat(math.Round(10-10*float64(i)/float64(n-1)), 0, 10)
			}
			tag, err := tx.db.Exec(ctx, `
				UPDATE applications SET portfolio_rank = $1, priority_weight = $2, updated_at = now()
				WHERE id = $3 AND owner_id = $4`,
				rank, weight, id, ownerID,
			)
			if err != nil {
				return ClassifyRelationError("applications", err)
			}
			if tag.RowsAffected() == 0 {
				return &NotFoundError{Entity: "application", ID: id}
			}
		}
		return nil
	})
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// CreateStatusUpdate appends a generated copy-update snippet to the log.
func (s *Store) CreateStatusUpdate(ctx context.Context, su *models.StatusUpdate) error {
	blockers, err := json.Marshal(su.BlockerTaskIDs)
	if err != nil {
		return fmt.Errorf("marshal blocker_task_ids: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO status_updates (id, owner_id, implementation_id, snippet, blocker_task_ids)
		VALUES ($1,$2,$3,$4,$5)`,
		su.ID, su.OwnerID, su.ImplementationID, su.Snippet, blockers,
	)
	if err != nil {
		return ClassifyRelationError("status_updates", err)
	}
	return nil
}

// ListStatusUpdates returns an application's status update log, newest first.
func (s *Store) ListStatusUpdates(ctx context.Context, ownerID, implementationID string) ([]*models.StatusUpdate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, implementation_id, snippet, blocker_task_ids, created_at
		FROM status_updates WHERE owner_id = $1 AND implementation_id = $2
		ORDER BY created_at DESC`,
		ownerID, implementationID,
	)
	if err != nil {
		return nil, ClassifyRelationError("status_updates", err)
	}
	defer rows.Close()

	var updates []*models.StatusUpdate
	for rows.Next() {
		var su models.StatusUpdate
		var blockers []byte
		if err := rows.Scan(&su.ID, &su.OwnerID, &su.ImplementationID, &su.Snippet, &blockers, &su.CreatedAt); err != nil {
			return nil, err
		}
		if len(blockers) > 0 {
			if err := json.Unmarshal(blockers, &su.BlockerTaskIDs); err != nil {
				return nil, fmt.Errorf("unmarshal blocker_task_ids: %w", err)
			}
		}
		updates = append(updates, &su)
	}
	return updates, rows.Err()
}

// CreateCommitment inserts a new commitment.
func (s *Store) CreateCommitment(ctx context.Context, c *models.Commitment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO commitments (id, owner_id, direction, stakeholder, description, fulfilled, due_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.OwnerID, c.Direction, c.Stakeholder, c.Description, c.Fulfilled, c.DueAt,
	)
	if err != nil {
		return ClassifyRelationError("commitments", err)
	}
	return nil
}

// ListCommitments returns the owner's commitments, optionally restricted
// to unfulfilled ones.
func (s *Store) ListCommitments(ctx context.Context, ownerID string, onlyUnfulfilled bool) ([]*models.Commitment, error) {
	query := `SELECT id, owner_id, direction, stakeholder, description, fulfilled, due_at, created_at, updated_at
		FROM commitments WHERE owner_id = $1`
	if onlyUnfulfilled {
		query += " AND fulfilled = false"
	}
	query += " ORDER BY due_at NULLS LAST, created_at"

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, ClassifyRelationError("commitments", err)
	}
	defer rows.Close()

	var commitments []*models.Commitment
	for rows.Next() {
		var c models.Commitment
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Direction, &c.Stakeholder, &c.Description, &c.Fulfilled, &c.DueAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		commitments = append(commitments, &c)
	}
	return commitments, rows.Err()
}

// SetCommitmentFulfilled toggles a commitment's fulfilled flag.
func (s *Store) SetCommitmentFulfilled(ctx context.Context, ownerID, id string, fulfilled bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE commitments SET fulfilled = $1, updated_at = now() WHERE id = $2 AND owner_id = $3`, fulfilled, id, ownerID)
	if err != nil {
		return ClassifyRelationError("commitments", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "commitment", ID: id}
	}
	return nil
}
