package models

import "time"

// LLMProvider enumerates the supported model providers.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

// LLMTier is an optional pricing tier classification.
type LLMTier string

const (
	TierStandard LLMTier = "standard"
	TierFlex     LLMTier = "flex"
	TierPriority LLMTier = "priority"
)

// LLMModelCatalog is one selectable model entry.
type LLMModelCatalog struct {
	ID                   string
	Provider             LLMProvider
	ProviderModelID      string
	DisplayName          string
	InputPricePer1M      *float64
	OutputPricePer1M     *float64
	Tier                 *LLMTier
	Enabled              bool
	PricingIsPlaceholder bool
	SortOrder            int
}

// LLMFeature is a consumer of LLM dispatch with its own routing preference.
type LLMFeature string

const (
	FeatureGlobalDefault    LLMFeature = "global_default"
	FeatureBriefingNarrative LLMFeature = "briefing_narrative"
	FeatureIntakeExtraction  LLMFeature = "intake_extraction"
)

// LLMUserPreference maps (owner, feature) to a preferred catalog row.
type LLMUserPreference struct {
	ID        string
	OwnerID   string
	Feature   LLMFeature
	CatalogID *string
	UpdatedAt time.Time
}

// ModelSource records why a given candidate was selected.
type ModelSource string

const (
	ModelSourceFeatureOverride ModelSource = "feature_override"
	ModelSourceGlobalDefault   ModelSource = "global_default"
	ModelSourceDefault         ModelSource = "default"
)

// UsageStatus is the outcome of one LLM dispatch attempt.
type UsageStatus string

const (
	UsageStatusSuccess             UsageStatus = "success"
	UsageStatusTimeout             UsageStatus = "timeout"
	UsageStatusError               UsageStatus = "error"
	UsageStatusCacheHit            UsageStatus = "cache_hit"
	UsageStatusSkippedUnconfigured UsageStatus = "skipped_unconfigured"
)

// LLMUsageEvent is an append-only record of one dispatch attempt.
type LLMUsageEvent struct {
	ID                 string
	OwnerID            string
	Feature            string
	Provider           *string
	ModelID            *string
	ModelSource        *ModelSource
	Status             UsageStatus
	LatencyMs          int
	InputTokens        int
	OutputTokens       int
	EstimatedCostUSD   *float64
	CacheStatus        *string
	RequestFingerprint *string
	CreatedAt          time.Time
}
