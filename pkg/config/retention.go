package config

import "time"

// RetentionConfig controls data retention and cleanup behavior for the
// append-only and snapshot tables that would otherwise grow unbounded.
type RetentionConfig struct {
	// CalendarSnapshotRetention is how long a calendar snapshot is kept
	// before it becomes eligible for lazy pruning on the next ingest.
	CalendarSnapshotRetention time.Duration `yaml:"calendar_snapshot_retention"`

	// LLMUsageEventRetention is how long an LLM usage event is kept
	// before the best-effort prune removes it.
	LLMUsageEventRetention time.Duration `yaml:"llm_usage_event_retention"`

	// LLMPrunePeriod bounds how often the usage-event prune runs;
	// enforced per-process, at most once per period.
	LLMPrunePeriod time.Duration `yaml:"llm_prune_period"`

	// NarrativeCacheTTL is how long a cached briefing narrative remains
	// valid for a given cache key before a fresh one is generated.
	NarrativeCacheTTL time.Duration `yaml:"narrative_cache_ttl"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		CalendarSnapshotRetention: 30 * 24 * time.Hour,
		LLMUsageEventRetention:    90 * 24 * time.Hour,
		LLMPrunePeriod:            24 * time.Hour,
		NarrativeCacheTTL:         30 * time.Minute,
	}
}
