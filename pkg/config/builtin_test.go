package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestDefaultCatalog_AllRowsEnabled(t *testing.T) {
	for _, row := range defaultCatalog() {
		assert.True(t, row.Enabled, "catalog row %s should be enabled by default", row.ID)
		assert.NotEmpty(t, row.ProviderModelID)
	}
}

func TestDefaultChains_GlobalDefaultNonEmpty(t *testing.T) {
	chains := defaultChains()
	assert.NotEmpty(t, chains[models.FeatureGlobalDefault])
}

func TestDefaultChains_ReferenceKnownCatalogIDs(t *testing.T) {
	byID := catalogByID(defaultCatalog())
	for feature, chain := range defaultChains() {
		for _, row := range chain {
			_, ok := byID[row.ID]
			assert.True(t, ok, "feature %s references unknown catalog id %s", feature, row.ID)
		}
	}
}

func TestDefaultProviders_HaveAPIKeyEnv(t *testing.T) {
	for provider, cfg := range DefaultProviders() {
		assert.NotEmpty(t, cfg.APIKeyEnv, "provider %s missing api key env", provider)
	}
}
