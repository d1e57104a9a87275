package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMUserPreference holds the schema definition for a per-owner,
// per-feature catalog model preference.
type LLMUserPreference struct {
	ent.Schema
}

func (LLMUserPreference) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.Enum("feature").
			Values("global_default", "briefing_narrative", "intake_extraction").
			Immutable(),
		field.String("catalog_id").
			Optional().
			Nillable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (LLMUserPreference) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "feature").
			Unique(),
	}
}

func (LLMUserPreference) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
