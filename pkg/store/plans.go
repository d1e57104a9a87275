package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// CreatePlan inserts an immutable scoring snapshot. Plans are append-only:
// replanning a date creates a new row rather than updating the old one.
func (s *Store) CreatePlan(ctx context.Context, p *models.Plan) error {
	inputs, err := json.Marshal(p.InputsSnapshot)
	if err != nil {
		return fmt.Errorf("marshal inputs_snapshot: %w", err)
	}
	planJSON, err := json.Marshal(p.PlanJSON)
	if err != nil {
		return fmt.Errorf("marshal plan_json: %w", err)
	}
	reasons, err := json.Marshal(p.ReasonsJSON)
	if err != nil {
		return fmt.Errorf("marshal reasons_json: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO plans (id, owner_id, plan_date, source, inputs_snapshot, plan_json, reasons_json, status, applied_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.OwnerID, p.PlanDate, p.Source, inputs, planJSON, reasons, p.Status, p.AppliedAt,
	)
	if err != nil {
		return ClassifyRelationError("plans", err)
	}
	return nil
}

// LatestPlan returns the most recently created plan for (owner, planDate),
// or a *NotFoundError if the owner has never been planned for that date.
func (s *Store) LatestPlan(ctx context.Context, ownerID, planDate string) (*models.Plan, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, plan_date, source, inputs_snapshot, plan_json, reasons_json, status, applied_at, created_at
		FROM plans WHERE owner_id = $1 AND plan_date = $2
		ORDER BY created_at DESC LIMIT 1`,
		ownerID, planDate,
	)
	return scanPlan(row)
}

func scanPlan(row pgx.Row) (*models.Plan, error) {
	var p models.Plan
	var inputs, planJSON, reasons []byte
	if err := row.Scan(&p.ID, &p.OwnerID, &p.PlanDate, &p.Source, &inputs, &planJSON, &reasons, &p.Status, &p.AppliedAt, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "plan", ID: p.PlanDate}
		}
		return nil, ClassifyRelationError("plans", err)
	}
	if err := json.Unmarshal(inputs, &p.InputsSnapshot); err != nil {
		return nil, fmt.Errorf("unmarshal inputs_snapshot: %w", err)
	}
	if err := json.Unmarshal(planJSON, &p.PlanJSON); err != nil {
		return nil, fmt.Errorf("unmarshal plan_json: %w", err)
	}
	if err := json.Unmarshal(reasons, &p.ReasonsJSON); err != nil {
		return nil, fmt.Errorf("unmarshal reasons_json: %w", err)
	}
	return &p, nil
}

// MarkPlanApplied sets a plan's status to applied and stamps applied_at.
func (s *Store) MarkPlanApplied(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE plans SET status = $1, applied_at = now() WHERE id = $2 AND owner_id = $3`,
		models.PlanStatusApplied, id, ownerID,
	)
	if err != nil {
		return ClassifyRelationError("plans", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "plan", ID: id}
	}
	return nil
}
