package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// InboxItem holds the schema definition for the metadata-only record of
// an inbound intake event.
type InboxItem struct {
	ent.Schema
}

func (InboxItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("dedupe_key").
			Immutable(),
		field.String("subject").
			Optional().
			Nillable(),
		field.String("from_email").
			Optional().
			Nillable(),
		field.String("from_name").
			Optional().
			Nillable(),
		field.Time("received_at"),
		field.String("message_id").
			Optional().
			Nillable(),
		field.String("source_url").
			Optional().
			Nillable(),
		field.Enum("triage_state").
			Values("New", "Processed", "Error").
			Default("New"),
		field.JSON("extraction_json", map[string]interface{}{}).
			Optional(),
		field.String("extraction_model").
			Optional().
			Nillable(),
		field.Float("extraction_confidence").
			Optional().
			Nillable(),
		field.Text("processing_error").
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

func (InboxItem) Edges() []ent.Edge {
	return []ent.Edge{}
}

func (InboxItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "dedupe_key").
			Unique(),
		index.Fields("owner_id", "triage_state"),
	}
}

func (InboxItem) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
