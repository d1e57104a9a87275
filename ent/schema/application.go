package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Application holds the schema definition for a long-running workstream
// ("implementation" elsewhere in this codebase).
type Application struct {
	ent.Schema
}

func (Application) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("owner_id").
			Immutable(),
		field.String("name").
			NotEmpty(),
		field.Enum("phase").
			Values("Intake", "Discovery", "Design", "Build", "Test", "Training", "GoLive", "Hypercare", "SteadyState", "Sundown").
			Default("Intake"),
		field.Enum("rag").
			Values("Green", "Yellow", "Red").
			Default("Green"),
		field.Float("priority_weight").
			Default(5).
			Min(0).
			Max(10),
		field.Int("portfolio_rank").
			Optional().
			Nillable(),
		field.JSON("stakeholders", []string{}).
			Optional(),
		field.JSON("keywords", []string{}).
			Optional(),
		field.Text("status_summary").
			Optional().
			Nillable(),
		field.String("next_milestone").
			Optional().
			Nillable(),
		field.Time("target_date").
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

func (Application) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "portfolio_rank").
			Unique().
			Annotations(entsql.IndexWhere("portfolio_rank IS NOT NULL")),
	}
}

func (Application) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
