package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMUsageEvent holds the schema definition for an append-only record of
// every LLM dispatch attempt.
type LLMUsageEvent struct {
	ent.Schema
}

func (LLMUsageEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("feature").
			Immutable(),
		field.String("provider").
			Optional().
			Nillable(),
		field.String("model_id").
			Optional().
			Nillable(),
		field.Enum("model_source").
			Values("feature_override", "global_default", "default").
			Optional().
			Nillable(),
		field.Enum("status").
			Values("success", "timeout", "error", "cache_hit", "skipped_unconfigured"),
		field.Int("latency_ms").
			Default(0),
		field.Int("input_tokens").
			Default(0),
		field.Int("output_tokens").
			Default(0),
		field.Float("estimated_cost_usd").
			Optional().
			Nillable(),
		field.String("cache_status").
			Optional().
			Nillable(),
		field.String("request_fingerprint").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (LLMUsageEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "feature", "created_at"),
		index.Fields("created_at"),
	}
}

func (LLMUsageEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
