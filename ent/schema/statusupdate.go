package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// StatusUpdate holds the schema definition for a generated copy-update
// snippet persisted to the log for an Application.
type StatusUpdate struct {
	ent.Schema
}

func (StatusUpdate) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("implementation_id").
			Immutable(),
		field.Text("snippet").
			NotEmpty(),
		field.JSON("blocker_task_ids", []string{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (StatusUpdate) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "implementation_id", "created_at"),
	}
}

func (StatusUpdate) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
