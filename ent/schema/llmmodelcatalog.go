package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMModelCatalog holds the schema definition for the set of LLM models
// available for selection.
type LLMModelCatalog struct {
	ent.Schema
}

func (LLMModelCatalog) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.Enum("provider").
			Values("openai", "anthropic"),
		field.String("provider_model_id"),
		field.String("display_name"),
		field.Float("input_price_per_1m").
			Optional().
			Nillable(),
		field.Float("output_price_per_1m").
			Optional().
			Nillable(),
		field.Enum("tier").
			Values("standard", "flex", "priority").
			Optional().
			Nillable(),
		field.Bool("enabled").
			Default(true),
		field.Bool("pricing_is_placeholder").
			Default(false),
		field.Int("sort_order").
			Default(0),
	}
}

func (LLMModelCatalog) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("provider", "provider_model_id").
			Unique(),
		index.Fields("enabled", "sort_order"),
	}
}

func (LLMModelCatalog) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
