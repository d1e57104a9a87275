package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// missionControlYAMLConfig represents the mission-control.yaml file:
// workday, priority, retention and admission settings.
type missionControlYAMLConfig struct {
	Workday   *WorkdayConfig   `yaml:"workday"`
	Priority  *PriorityConfig  `yaml:"priority"`
	Retention *RetentionConfig `yaml:"retention"`
	Admission *AdmissionConfig `yaml:"admission"`
	Capacity  *CapacityConfig  `yaml:"capacity"`
}

// llmYAMLConfig represents the llm.yaml file: provider connections,
// the model catalog, and per-feature fallback chains expressed as
// ordered lists of catalog IDs.
type llmYAMLConfig struct {
	Providers map[models.LLMProvider]ProviderConfig `yaml:"providers"`
	Catalog   []models.LLMModelCatalog              `yaml:"catalog"`
	Chains    map[models.LLMFeature][]string        `yaml:"chains"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load YAML files from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in + user-defined providers and catalog entries
//  5. Resolve per-feature chains against the merged catalog
//  6. Build in-memory registries
//  7. Apply default values for workday/priority/retention/admission
//  8. Validate all configuration
//  9. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"providers", stats.Providers,
		"chains", stats.Chains)

	return cfg, nil
}

func load(configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	mcConfig, err := loader.loadMissionControlYAML()
	if err != nil {
		return nil, NewLoadError("mission-control.yaml", err)
	}

	llmConfig, err := loader.loadLLMYAML()
	if err != nil {
		return nil, NewLoadError("llm.yaml", err)
	}

	providers := mergeProviders(DefaultProviders(), asProviderPtrMap(llmConfig.Providers))
	catalog := mergeCatalog(defaultCatalog(), llmConfig.Catalog)
	chains, err := resolveChains(defaultChains(), llmConfig.Chains, catalog)
	if err != nil {
		return nil, err
	}

	workday := DefaultWorkdayConfig()
	if mcConfig.Workday != nil {
		if err := mergo.Merge(workday, mcConfig.Workday, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge workday config: %w", err)
		}
	}

	priority := DefaultPriorityConfig()
	if mcConfig.Priority != nil {
		if err := mergo.Merge(priority, mcConfig.Priority, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge priority config: %w", err)
		}
	}

	retention := DefaultRetentionConfig()
	if mcConfig.Retention != nil {
		if err := mergo.Merge(retention, mcConfig.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}

	admission := DefaultAdmissionConfig()
	if mcConfig.Admission != nil {
		if err := mergo.Merge(admission, mcConfig.Admission, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge admission config: %w", err)
		}
	}

	capacity := DefaultCapacityConfig()
	if mcConfig.Capacity != nil {
		if err := mergo.Merge(capacity, mcConfig.Capacity, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge capacity config: %w", err)
		}
	}

	return &Config{
		configDir:        configDir,
		Workday:          workday,
		Priority:         priority,
		Retention:        retention,
		Admission:        admission,
		Capacity:         capacity,
		ProviderRegistry: NewProviderRegistry(providers),
		ChainRegistry:    NewChainRegistry(chains),
		Catalog:          catalog,
	}, nil
}

func asProviderPtrMap(m map[models.LLMProvider]ProviderConfig) map[models.LLMProvider]*ProviderConfig {
	out := make(map[models.LLMProvider]*ProviderConfig, len(m))
	for k, v := range m {
		cfgCopy := v
		out[k] = &cfgCopy
	}
	return out
}

// mergeCatalog merges built-in and user-defined catalog rows, keyed by
// ID. A user row with the same ID replaces the built-in row entirely.
func mergeCatalog(builtin, user []models.LLMModelCatalog) map[string]models.LLMModelCatalog {
	merged := catalogByID(builtin)
	for _, row := range user {
		merged[row.ID] = row
	}
	return merged
}

// resolveChains resolves each feature's ordered list of catalog IDs
// into concrete catalog rows. A feature present in user chains
// replaces its built-in chain wholesale.
func resolveChains(builtin map[models.LLMFeature][]models.LLMModelCatalog, userChainIDs map[models.LLMFeature][]string, catalog map[string]models.LLMModelCatalog) (map[models.LLMFeature][]models.LLMModelCatalog, error) {
	result := make(map[models.LLMFeature][]models.LLMModelCatalog, len(builtin)+len(userChainIDs))
	for feature, chain := range builtin {
		result[feature] = chain
	}
	for feature, ids := range userChainIDs {
		chain := make([]models.LLMModelCatalog, 0, len(ids))
		for _, id := range ids {
			row, ok := catalog[id]
			if !ok {
				return nil, fmt.Errorf("%w: chain for feature %s references unknown catalog id %q", ErrValidationFailed, feature, id)
			}
			chain = append(chain, row)
		}
		result[feature] = chain
	}
	return result, nil
}

func validate(cfg *Config) error {
	if cfg.ProviderRegistry.Len() == 0 {
		return NewValidationError("providers", "", fmt.Errorf("%w: no LLM providers configured", ErrMissingRequiredField))
	}
	for provider, pc := range cfg.ProviderRegistry.GetAll() {
		if pc.APIKeyEnv == "" {
			return NewValidationError("providers", string(provider), fmt.Errorf("%w: api_key_env", ErrMissingRequiredField))
		}
	}
	if _, err := cfg.ChainRegistry.Get(models.FeatureGlobalDefault); err != nil {
		return NewValidationError("chains", string(models.FeatureGlobalDefault), err)
	}
	if cfg.Workday.Timezone == "" {
		return NewValidationError("workday", "timezone", ErrMissingRequiredField)
	}
	return nil
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadMissionControlYAML() (*missionControlYAMLConfig, error) {
	var cfg missionControlYAMLConfig
	if err := l.loadYAML("mission-control.yaml", &cfg); err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return &missionControlYAMLConfig{}, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (l *configLoader) loadLLMYAML() (*llmYAMLConfig, error) {
	cfg := llmYAMLConfig{
		Providers: make(map[models.LLMProvider]ProviderConfig),
		Chains:    make(map[models.LLMFeature][]string),
	}
	if err := l.loadYAML("llm.yaml", &cfg); err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}
