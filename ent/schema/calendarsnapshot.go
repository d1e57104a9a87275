package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CalendarSnapshot holds the schema definition for a captured range-request
// snapshot, used only for delta computation.
type CalendarSnapshot struct {
	ent.Schema
}

func (CalendarSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("range_start").
			Immutable(),
		field.String("range_end").
			Immutable(),
		field.JSON("payload_min", []map[string]interface{}{}).
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (CalendarSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "range_start", "range_end", "created_at"),
	}
}

func (CalendarSnapshot) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
