package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// IngestionEvent holds the schema definition for an append-only audit
// trail entry produced by the extraction pipeline.
type IngestionEvent struct {
	ent.Schema
}

func (IngestionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("inbox_item_id").
			Immutable(),
		field.Enum("kind").
			Values("deduped", "received", "extracted", "task_created", "error").
			Immutable(),
		field.Text("detail").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (IngestionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("inbox_item_id", "created_at"),
	}
}

func (IngestionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
