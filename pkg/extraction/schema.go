package extraction

// extractionSchemaJSON constrains the shape of the JSON the extraction
// model must return, per §4.E step 4. due_guess_iso and
// implementation_guess are nullable: the model omits what it cannot
// infer rather than guessing.
const extractionSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["title", "task_type", "confidence", "needs_review"],
	"additionalProperties": false,
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"description": {"type": ["string", "null"]},
		"task_type": {"type": "string", "enum": ["Task", "Ticket", "MeetingPrep", "FollowUp", "Admin", "Build"]},
		"estimated_minutes": {"type": ["integer", "null"], "minimum": 1, "maximum": 480},
		"due_guess_iso": {"type": ["string", "null"]},
		"stakeholder_mentions": {"type": "array", "items": {"type": "string"}},
		"implementation_guess": {"type": ["string", "null"]},
		"implementation_confidence": {"type": ["number", "null"], "minimum": 0, "maximum": 1},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"needs_review": {"type": "boolean"},
		"suggested_checklist": {"type": "array", "items": {"type": "string"}}
	}
}`
