package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Commitment holds the schema definition for a two-party promise attached
// to a stakeholder that a Task may depend on.
type Commitment struct {
	ent.Schema
}

func (Commitment) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.Enum("direction").
			Values("ours", "theirs"),
		field.String("stakeholder").
			NotEmpty(),
		field.Text("description").
			NotEmpty(),
		field.Bool("fulfilled").
			Default(false),
		field.Time("due_at").
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

func (Commitment) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "fulfilled"),
	}
}

func (Commitment) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
