package config

import (
	"fmt"
	"sync"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// ChainRegistry stores the built-in default fallback chain of catalog
// entries per LLM feature, with thread-safe access.
type ChainRegistry struct {
	chains map[models.LLMFeature][]models.LLMModelCatalog
	mu     sync.RWMutex
}

// NewChainRegistry creates a new chain registry from a defensive copy.
func NewChainRegistry(chains map[models.LLMFeature][]models.LLMModelCatalog) *ChainRegistry {
	copied := make(map[models.LLMFeature][]models.LLMModelCatalog, len(chains))
	for k, v := range chains {
		cp := make([]models.LLMModelCatalog, len(v))
		copy(cp, v)
		copied[k] = cp
	}
	return &ChainRegistry{chains: copied}
}

// ChainFor returns the default chain for a feature, falling back to the
// global_default chain if the feature has none of its own.
func (r *ChainRegistry) ChainFor(feature models.LLMFeature) []models.LLMModelCatalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if chain, ok := r.chains[feature]; ok && len(chain) > 0 {
		return chain
	}
	return r.chains[models.FeatureGlobalDefault]
}

// Get retrieves the raw chain configured for a feature (no fallback).
func (r *ChainRegistry) Get(feature models.LLMFeature) ([]models.LLMModelCatalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain, ok := r.chains[feature]
	if !ok {
		return nil, fmt.Errorf("%w: no default chain for feature %s", ErrValidationFailed, feature)
	}
	return chain, nil
}

// Len returns the number of configured feature chains.
func (r *ChainRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chains)
}
