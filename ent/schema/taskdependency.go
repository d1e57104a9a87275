package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TaskDependency holds the schema definition for a task-to-task or
// task-to-commitment dependency edge.
type TaskDependency struct {
	ent.Schema
}

func (TaskDependency) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("task_id").
			Immutable(),
		field.String("depends_on_task_id").
			Optional().
			Nillable(),
		field.String("depends_on_commitment_id").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (TaskDependency) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "task_id"),
		index.Fields("task_id", "depends_on_task_id").
			Unique(),
	}
}

func (TaskDependency) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
