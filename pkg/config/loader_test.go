package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestInitialize_DefaultsOnlyWhenNoConfigFiles(t *testing.T) {
	configDir := t.TempDir()

	ctx := context.Background()
	cfg, err := Initialize(ctx, configDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.ProviderRegistry.Has(models.ProviderAnthropic))
	assert.True(t, cfg.ProviderRegistry.Has(models.ProviderOpenAI))

	chain, err := cfg.ChainRegistry.Get(models.FeatureGlobalDefault)
	require.NoError(t, err)
	assert.NotEmpty(t, chain)

	assert.Equal(t, "America/New_York", cfg.Workday.Timezone)

	stats := cfg.Stats()
	assert.Greater(t, stats.Providers, 0)
	assert.Greater(t, stats.Chains, 0)
}

func TestInitialize_InvalidYAML(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "mission-control.yaml"), []byte("{{{"), 0644))

	_, err := Initialize(context.Background(), configDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInitialize_UserProviderOverridesBuiltin(t *testing.T) {
	configDir := t.TempDir()
	llmYAML := `
providers:
  anthropic:
    type: anthropic
    api_key_env: CUSTOM_ANTHROPIC_KEY
    base_url: https://example.internal/anthropic
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "llm.yaml"), []byte(llmYAML), 0644))

	cfg, err := Initialize(context.Background(), configDir)
	require.NoError(t, err)

	pc, err := cfg.ProviderRegistry.Get(models.ProviderAnthropic)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM_ANTHROPIC_KEY", pc.APIKeyEnv)
	assert.Equal(t, "https://example.internal/anthropic", pc.BaseURL)

	// openai provider is untouched, still present from built-in defaults.
	assert.True(t, cfg.ProviderRegistry.Has(models.ProviderOpenAI))
}

func TestInitialize_UnknownCatalogIDInChainFails(t *testing.T) {
	configDir := t.TempDir()
	llmYAML := `
chains:
  briefing_narrative: ["does-not-exist"]
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "llm.yaml"), []byte(llmYAML), 0644))

	_, err := Initialize(context.Background(), configDir)
	require.Error(t, err)
}

func TestInitialize_WorkdayOverride(t *testing.T) {
	configDir := t.TempDir()
	mcYAML := `
workday:
  timezone: America/Los_Angeles
  focus_start_hour: 7
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "mission-control.yaml"), []byte(mcYAML), 0644))

	cfg, err := Initialize(context.Background(), configDir)
	require.NoError(t, err)

	assert.Equal(t, "America/Los_Angeles", cfg.Workday.Timezone)
	assert.Equal(t, 7, cfg.Workday.FocusStartHour)
	// Untouched fields keep their built-in default.
	assert.Equal(t, 16, cfg.Workday.FocusEndHour)
}
