package config

import "github.com/bvquist1400/mission-control/pkg/models"

// mergeProviders merges built-in and user-defined provider configurations.
// User-defined providers override built-in providers of the same type.
func mergeProviders(builtin, user map[models.LLMProvider]*ProviderConfig) map[models.LLMProvider]*ProviderConfig {
	result := make(map[models.LLMProvider]*ProviderConfig, len(builtin)+len(user))
	for provider, cfg := range builtin {
		cfgCopy := *cfg
		result[provider] = &cfgCopy
	}
	for provider, cfg := range user {
		cfgCopy := *cfg
		result[provider] = &cfgCopy
	}
	return result
}
