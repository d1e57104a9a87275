package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Task holds the schema definition for the Task entity.
type Task struct {
	ent.Schema
}

// Fields of the Task.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("title").
			NotEmpty(),
		field.Text("description").
			Optional().
			Nillable(),
		field.String("implementation_id").
			Optional().
			Nillable().
			Comment("References an Application"),
		field.String("project_id").
			Optional().
			Nillable(),
		field.Enum("status").
			Values("Backlog", "Planned", "InProgress", "BlockedWaiting", "Done").
			Default("Backlog"),
		field.Enum("task_type").
			Values("Task", "Ticket", "MeetingPrep", "FollowUp", "Admin", "Build").
			Default("Task"),
		field.Float("priority_score").
			Default(0).
			Min(0).
			Max(100),
		field.Int("estimated_minutes").
			Default(30).
			Min(1).
			Max(480),
		field.Enum("estimate_source").
			Values("default", "llm", "manual").
			Default("default"),
		field.Time("due_at").
			Optional().
			Nillable(),
		field.Bool("needs_review").
			Default(false),
		field.Bool("blocker").
			Default(false),
		field.Text("waiting_on").
			Optional().
			Nillable(),
		field.Time("follow_up_at").
			Optional().
			Nillable(),
		field.JSON("stakeholder_mentions", []string{}).
			Optional(),
		field.String("source_type").
			Default("Manual"),
		field.String("source_url").
			Optional().
			Nillable(),
		field.String("inbox_item_id").
			Optional().
			Nillable(),
		field.Text("pinned_excerpt").
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

// Edges of the Task.
func (Task) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("dependencies", TaskDependency.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("checklist_items", ChecklistItem.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "status"),
		index.Fields("owner_id", "implementation_id"),
		index.Fields("owner_id", "due_at"),
		index.Fields("owner_id", "updated_at"),
		index.Fields("owner_id", "inbox_item_id").
			Annotations(entsql.IndexWhere("inbox_item_id IS NOT NULL")),
	}
}

func (Task) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
