package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ChecklistItem holds the schema definition for a sub-item of a Task,
// typically produced by the extraction pipeline's suggested_checklist.
type ChecklistItem struct {
	ent.Schema
}

func (ChecklistItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("task_id").
			Immutable(),
		field.String("text").
			NotEmpty(),
		field.Bool("done").
			Default(false),
		field.Int("sort_order").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (ChecklistItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("task_id", "sort_order"),
	}
}

func (ChecklistItem) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
