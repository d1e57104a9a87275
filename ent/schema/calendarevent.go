package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CalendarEvent holds the schema definition for a calendar event ingested
// from a local, iCal, or Graph source.
type CalendarEvent struct {
	ent.Schema
}

func (CalendarEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.Enum("source").
			Values("local", "ical", "graph"),
		field.String("external_event_id"),
		field.Time("start_at"),
		field.Time("end_at"),
		field.String("title"),
		field.Text("body_preview").
			Optional().
			Nillable(),
		field.Bool("is_all_day").
			Default(false),
		field.String("content_hash"),
		field.Text("meeting_context").
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

func (CalendarEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "source", "external_event_id", "start_at").
			Unique(),
		index.Fields("owner_id", "start_at", "end_at"),
	}
}

func (CalendarEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
