package config

import "github.com/bvquist1400/mission-control/pkg/models"

func ptrf(v float64) *float64     { return &v }
func ptrTier(v models.LLMTier) *models.LLMTier { return &v }

// defaultCatalog returns the built-in set of LLM model catalog rows.
// These ship with the binary and are merged under any user-supplied
// catalog entries in the configuration file.
func defaultCatalog() []models.LLMModelCatalog {
	return []models.LLMModelCatalog{
		{
			ID:               "anthropic-claude-sonnet",
			Provider:         models.ProviderAnthropic,
			ProviderModelID:  "claude-sonnet-4-20250514",
			DisplayName:      "Claude Sonnet",
			InputPricePer1M:  ptrf(3.0),
			OutputPricePer1M: ptrf(15.0),
			Tier:             ptrTier(models.TierStandard),
			Enabled:          true,
			SortOrder:        0,
		},
		{
			ID:               "anthropic-claude-haiku",
			Provider:         models.ProviderAnthropic,
			ProviderModelID:  "claude-haiku-4-20250514",
			DisplayName:      "Claude Haiku",
			InputPricePer1M:  ptrf(0.8),
			OutputPricePer1M: ptrf(4.0),
			Tier:             ptrTier(models.TierFlex),
			Enabled:          true,
			SortOrder:        1,
		},
		{
			ID:               "openai-gpt-4o",
			Provider:         models.ProviderOpenAI,
			ProviderModelID:  "gpt-4o",
			DisplayName:      "GPT-4o",
			InputPricePer1M:  ptrf(2.5),
			OutputPricePer1M: ptrf(10.0),
			Tier:             ptrTier(models.TierStandard),
			Enabled:          true,
			SortOrder:        2,
		},
		{
			ID:               "openai-gpt-4o-mini",
			Provider:         models.ProviderOpenAI,
			ProviderModelID:  "gpt-4o-mini",
			DisplayName:      "GPT-4o mini",
			InputPricePer1M:  ptrf(0.15),
			OutputPricePer1M: ptrf(0.6),
			Tier:             ptrTier(models.TierFlex),
			Enabled:          true,
			SortOrder:        3,
		},
	}
}

func catalogByID(rows []models.LLMModelCatalog) map[string]models.LLMModelCatalog {
	m := make(map[string]models.LLMModelCatalog, len(rows))
	for _, r := range rows {
		m[r.ID] = r
	}
	return m
}

// defaultChains returns the built-in fallback chain per feature, each
// entry resolved against defaultCatalog. global_default is consulted
// whenever a feature has no chain of its own.
func defaultChains() map[models.LLMFeature][]models.LLMModelCatalog {
	byID := catalogByID(defaultCatalog())
	chain := func(ids ...string) []models.LLMModelCatalog {
		out := make([]models.LLMModelCatalog, 0, len(ids))
		for _, id := range ids {
			if row, ok := byID[id]; ok {
				out = append(out, row)
			}
		}
		return out
	}
	return map[models.LLMFeature][]models.LLMModelCatalog{
		models.FeatureGlobalDefault: chain(
			"anthropic-claude-sonnet",
			"openai-gpt-4o",
			"anthropic-claude-haiku",
		),
		models.FeatureBriefingNarrative: chain(
			"anthropic-claude-sonnet",
			"openai-gpt-4o",
		),
		models.FeatureIntakeExtraction: chain(
			"anthropic-claude-haiku",
			"openai-gpt-4o-mini",
		),
	}
}

// DefaultProviders returns the built-in provider connection config,
// reading API keys from the conventional per-provider environment
// variable names.
func DefaultProviders() map[models.LLMProvider]*ProviderConfig {
	return map[models.LLMProvider]*ProviderConfig{
		models.ProviderAnthropic: {
			Type:      models.ProviderAnthropic,
			APIKeyEnv: "ANTHROPIC_API_KEY",
		},
		models.ProviderOpenAI: {
			Type:      models.ProviderOpenAI,
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}
