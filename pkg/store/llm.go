package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// ListLLMModelCatalog returns every enabled catalog row, sorted as
// configured. The config-loaded built-in/user catalog (pkg/config) is
// the source of truth at startup; this table exists so a running
// instance's admin surface can read back what is active without
// restarting the process.
func (s *Store) ListLLMModelCatalog(ctx context.Context) ([]*models.LLMModelCatalog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, provider, provider_model_id, display_name, input_price_per_1m,
			output_price_per_1m, tier, enabled, pricing_is_placeholder, sort_order
		FROM llm_model_catalog WHERE enabled = true ORDER BY sort_order`,
	)
	if err != nil {
		return nil, ClassifyRelationError("llm_model_catalog", err)
	}
	defer rows.Close()

	var rowsOut []*models.LLMModelCatalog
	for rows.Next() {
		var c models.LLMModelCatalog
		if err := rows.Scan(
			&c.ID, &c.Provider, &c.ProviderModelID, &c.DisplayName, &c.InputPricePer1M,
			&c.OutputPricePer1M, &c.Tier, &c.Enabled, &c.PricingIsPlaceholder, &c.SortOrder,
		); err != nil {
			return nil, err
		}
		rowsOut = append(rowsOut, &c)
	}
	return rowsOut, rows.Err()
}

// UpsertLLMModelCatalogRow mirrors the config-loaded catalog into the
// database so admin reads see what the process actually resolved at
// startup.
func (s *Store) UpsertLLMModelCatalogRow(ctx context.Context, c *models.LLMModelCatalog) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO llm_model_catalog (id, provider, provider_model_id, display_name,
			input_price_per_1m, output_price_per_1m, tier, enabled, pricing_is_placeholder, sort_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (provider, provider_model_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			input_price_per_1m = EXCLUDED.input_price_per_1m,
			output_price_per_1m = EXCLUDED.output_price_per_1m,
			tier = EXCLUDED.tier,
			enabled = EXCLUDED.enabled,
			pricing_is_placeholder = EXCLUDED.pricing_is_placeholder,
			sort_order = EXCLUDED.sort_order`,
		c.ID, c.Provider, c.ProviderModelID, c.DisplayName, c.InputPricePer1M,
		c.OutputPricePer1M, c.Tier, c.Enabled, c.PricingIsPlaceholder, c.SortOrder,
	)
	if err != nil {
		return ClassifyRelationError("llm_model_catalog", err)
	}
	return nil
}

// GetLLMUserPreference returns the owner's preferred catalog row for a
// feature, or a *NotFoundError if unset (the caller should fall back to
// the feature's configured chain).
func (s *Store) GetLLMUserPreference(ctx context.Context, ownerID string, feature models.LLMFeature) (*models.LLMUserPreference, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, feature, catalog_id, updated_at
		FROM llm_user_preferences WHERE owner_id = $1 AND feature = $2`,
		ownerID, feature,
	)

	var p models.LLMUserPreference
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Feature, &p.CatalogID, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Entity: "llm_user_preference", ID: string(feature)}
		}
		return nil, ClassifyRelationError("llm_user_preferences", err)
	}
	return &p, nil
}

// SetLLMUserPreference upserts the owner's preferred catalog row for a feature.
func (s *Store) SetLLMUserPreference(ctx context.Context, p *models.LLMUserPreference) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO llm_user_preferences (id, owner_id, feature, catalog_id, updated_at)
		VALUES ($1,$2,$3,$4,now())
		ON CONFLICT (owner_id, feature) DO UPDATE SET
			catalog_id = EXCLUDED.catalog_id, updated_at = now()`,
		p.ID, p.OwnerID, p.Feature, p.CatalogID,
	)
	if err != nil {
		return ClassifyRelationError("llm_user_preferences", err)
	}
	return nil
}

// RecordLLMUsageEvent appends a dispatch-attempt record. Usage recording
// never blocks the caller's request on failure; callers should log and
// continue rather than fail the feature that triggered the dispatch.
func (s *Store) RecordLLMUsageEvent(ctx context.Context, ev *models.LLMUsageEvent) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO llm_usage_events (
			id, owner_id, feature, provider, model_id, model_source, status,
			latency_ms, input_tokens, output_tokens, estimated_cost_usd, cache_status, request_fingerprint
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		ev.ID, ev.OwnerID, ev.Feature, ev.Provider, ev.ModelID, ev.ModelSource, ev.Status,
		ev.LatencyMs, ev.InputTokens, ev.OutputTokens, ev.EstimatedCostUSD, ev.CacheStatus, ev.RequestFingerprint,
	)
	if err != nil {
		return ClassifyRelationError("llm_usage_events", err)
	}
	return nil
}

// PruneLLMUsageEvents deletes usage events older than cutoff, returning
// the number of rows removed.
func (s *Store) PruneLLMUsageEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM llm_usage_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, ClassifyRelationError("llm_usage_events", err)
	}
	return tag.RowsAffected(), nil
}
