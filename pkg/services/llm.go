package services

import (
	"context"

	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// configCatalog adapts config.Config's merged catalog to llmdispatch.CatalogLookup.
type configCatalog struct {
	cfg *config.Config
}

func (c configCatalog) ByID(catalogID string) (models.LLMModelCatalog, bool) {
	return c.cfg.CatalogByID(catalogID)
}

// configDefaultChain adapts config.ChainRegistry to llmdispatch.DefaultChain.
type configDefaultChain struct {
	cfg *config.Config
}

func (c configDefaultChain) ChainFor(feature models.LLMFeature) []models.LLMModelCatalog {
	chain, err := c.cfg.ChainRegistry.Get(feature)
	if err != nil {
		return nil
	}
	return chain
}

// storePreferences adapts the Store Facade's per-owner preference table
// to llmdispatch.PreferenceLookup. Lookup failures (including a missing
// llm_user_preferences table on a degraded deployment) resolve to "no
// preference" rather than propagating an error: dispatch always has the
// default chain to fall back on.
type storePreferences struct {
	db *store.Store
}

func (p storePreferences) Preference(ownerID string, feature models.LLMFeature) (string, bool) {
	pref, err := p.db.GetLLMUserPreference(context.Background(), ownerID, feature)
	if err != nil || pref.CatalogID == nil {
		return "", false
	}
	return *pref.CatalogID, true
}

// storeUsage adapts the Store Facade to llmdispatch.UsageRecorder.
type storeUsage struct {
	db *store.Store
}

func (u storeUsage) Record(ctx context.Context, event models.LLMUsageEvent) error {
	event.ID = newID()
	return u.db.RecordLLMUsageEvent(ctx, &event)
}

// NewDispatcher builds a Dispatcher wired to cfg's catalog/chains and db's
// per-owner preferences and usage log. providers supplies the concrete
// provider adapters (anthropic, openai) keyed by models.LLMProvider.
func NewDispatcher(cfg *config.Config, db *store.Store, providers map[models.LLMProvider]llmdispatch.Provider) *llmdispatch.Dispatcher {
	return &llmdispatch.Dispatcher{
		Providers:    providers,
		Preferences:  storePreferences{db: db},
		Catalog:      configCatalog{cfg: cfg},
		DefaultChain: configDefaultChain{cfg: cfg},
		Usage:        storeUsage{db: db},
	}
}
