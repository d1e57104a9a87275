package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// FocusDirective holds the schema definition for a scoped multiplier that
// re-weights tasks at plan time.
type FocusDirective struct {
	ent.Schema
}

func (FocusDirective) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.Text("text").
			NotEmpty(),
		field.Enum("scope_type").
			Values("application", "stakeholder", "task_type", "query"),
		field.String("scope_id").
			Optional().
			Nillable(),
		field.String("scope_value").
			Optional().
			Nillable(),
		field.Enum("strength").
			Values("nudge", "strong", "hard"),
		field.Bool("is_active").
			Default(true),
		field.Time("starts_at").
			Optional().
			Nillable(),
		field.Time("ends_at").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (FocusDirective) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "is_active"),
	}
}

func (FocusDirective) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
