// Package extraction implements the intake pipeline: dedupe keying,
// inbox-item lifecycle, LLM-driven field extraction under a fixed JSON
// schema, implementation-guess resolution, priority boosting, and
// task+checklist creation, per §4.E.
package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/priority"
	"github.com/bvquist1400/mission-control/pkg/store"
)

const extractionTimeoutMs = 8000
const extractionMaxTokens = 1200
const extractionTemperature = 0.2
const implementationGuessConfidenceFloor = 0.7

var extractionSystemPrompt = "You extract a single actionable task from an inbound email-shaped event. " +
	"Respond with a single JSON object matching the provided schema and nothing else. " +
	"Infer due_guess_iso only when the text states or clearly implies a date. " +
	"Set needs_review=true whenever you are unsure about task_type, due date, or the responsible application."

var extractionSchema *jsonschema.Schema

func init() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("extraction.schema.json", strings.NewReader(extractionSchemaJSON)); err != nil {
		panic(fmt.Sprintf("extraction: invalid embedded schema: %v", err))
	}
	sch, err := c.Compile("extraction.schema.json")
	if err != nil {
		panic(fmt.Sprintf("extraction: schema did not compile: %v", err))
	}
	extractionSchema = sch
}

func newID() string { return uuid.NewString() }

// Input is the intake payload per §4.E. BodySnippet is transient: it is
// sanitized and handed to the prompt but never persisted.
type Input struct {
	Subject      *string
	FromEmail    *string
	FromName     *string
	ReceivedAt   time.Time
	MessageID    *string
	SourceURL    *string
	BodySnippet  string
}

// Output is the result of one intake call.
type Output struct {
	InboxItemID string
	Deduped     bool
	TaskID      *string
}

// FailedError is returned when extraction itself fails (LLM chain
// exhausted or the response failed schema validation). The inbox item
// already exists and carries processing_error; callers surface it as a
// 5xx alongside InboxItemID per §4.E step 4.
type FailedError struct {
	InboxItemID string
	Cause       error
}

func (e *FailedError) Error() string { return "extraction failed: " + e.Cause.Error() }
func (e *FailedError) Unwrap() error { return e.Cause }

// extracted is the validated shape of the model's JSON response.
type extracted struct {
	Title                    string   `json:"title"`
	Description              *string  `json:"description"`
	TaskType                 string   `json:"task_type"`
	EstimatedMinutes         *int     `json:"estimated_minutes"`
	DueGuessISO              *string  `json:"due_guess_iso"`
	StakeholderMentions      []string `json:"stakeholder_mentions"`
	ImplementationGuess      *string  `json:"implementation_guess"`
	ImplementationConfidence *float64 `json:"implementation_confidence"`
	Confidence               float64  `json:"confidence"`
	NeedsReview              bool     `json:"needs_review"`
	SuggestedChecklist       []string `json:"suggested_checklist"`
}

// Pipeline runs the intake flow for one owner's inbound events.
type Pipeline struct {
	db         *store.Store
	cfg        *config.Config
	dispatcher *llmdispatch.Dispatcher
}

func New(db *store.Store, cfg *config.Config, dispatcher *llmdispatch.Dispatcher) *Pipeline {
	return &Pipeline{db: db, cfg: cfg, dispatcher: dispatcher}
}

// DedupeKey computes the stable identity for one inbound event, per §3:
// SHA-256(owner|message_id) when a message id is present, else
// SHA-256(owner|subject|from_email|received_at).
func DedupeKey(ownerID string, in Input) string {
	var h [32]byte
	if in.MessageID != nil && *in.MessageID != "" {
		h = sha256.Sum256([]byte(ownerID + "|" + *in.MessageID))
	} else {
		subject := ""
		if in.Subject != nil {
			subject = *in.Subject
		}
		fromEmail := ""
		if in.FromEmail != nil {
			fromEmail = *in.FromEmail
		}
		h = sha256.Sum256([]byte(ownerID + "|" + subject + "|" + fromEmail + "|" + in.ReceivedAt.UTC().Format(time.RFC3339)))
	}
	return hex.EncodeToString(h[:])
}

// Intake runs the full pipeline for one inbound event.
func (p *Pipeline) Intake(ctx context.Context, ownerID string, in Input) (*Output, error) {
	dedupeKey := DedupeKey(ownerID, in)

	if existing, err := p.db.FindInboxItemByDedupeKey(ctx, ownerID, dedupeKey); err == nil {
		p.logEvent(ctx, ownerID, existing.ID, models.IngestionEventDeduped, nil)
		return &Output{InboxItemID: existing.ID, Deduped: true}, nil
	} else if _, ok := err.(*store.NotFoundError); !ok {
		return nil, err
	}

	item := &models.InboxItem{
		ID:          newID(),
		OwnerID:     ownerID,
		DedupeKey:   dedupeKey,
		Subject:     in.Subject,
		FromEmail:   in.FromEmail,
		FromName:    in.FromName,
		ReceivedAt:  in.ReceivedAt,
		MessageID:   in.MessageID,
		SourceURL:   in.SourceURL,
		TriageState: models.TriageStateNew,
	}
	if err := p.db.CreateInboxItem(ctx, item); err != nil {
		if _, ok := err.(*store.ConflictError); ok {
			existing, findErr := p.db.FindInboxItemByDedupeKey(ctx, ownerID, dedupeKey)
			if findErr != nil {
				return nil, findErr
			}
			p.logEvent(ctx, ownerID, existing.ID, models.IngestionEventDeduped, nil)
			return &Output{InboxItemID: existing.ID, Deduped: true}, nil
		}
		return nil, err
	}
	p.logEvent(ctx, ownerID, item.ID, models.IngestionEventReceived, nil)

	apps, err := p.db.ListApplications(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result, rawText, err := p.runExtraction(ctx, ownerID, in, apps)
	if err != nil {
		msg := err.Error()
		_ = p.db.MarkInboxItemError(ctx, ownerID, item.ID, msg)
		p.logEvent(ctx, ownerID, item.ID, models.IngestionEventError, &msg)
		return nil, &FailedError{InboxItemID: item.ID, Cause: err}
	}

	extractionJSON := map[string]interface{}{}
	_ = json.Unmarshal([]byte(rawText), &extractionJSON)

	if err := p.db.UpdateInboxItemExtraction(ctx, ownerID, item.ID, extractionJSON, result.modelID, result.confidence, models.TriageStateProcessed); err != nil {
		return nil, err
	}
	p.logEvent(ctx, ownerID, item.ID, models.IngestionEventExtracted, nil)

	taskID, err := p.createTask(ctx, ownerID, item.ID, result, apps)
	if err != nil {
		return nil, err
	}
	p.logEvent(ctx, ownerID, item.ID, models.IngestionEventTaskCreated, &taskID)

	return &Output{InboxItemID: item.ID, TaskID: &taskID}, nil
}

type extractionOutcome struct {
	extracted
	modelID    string
	confidence float64
}

func (p *Pipeline) runExtraction(ctx context.Context, ownerID string, in Input, apps []*models.Application) (*extractionOutcome, string, error) {
	userPrompt := buildExtractionPrompt(in, apps)
	fingerprint := llmdispatch.Fingerprint(ownerID, "intake_extraction", fmt.Sprint(in.ReceivedAt.Unix()))

	result := p.dispatcher.GenerateText(ctx, ownerID, models.FeatureIntakeExtraction, extractionSystemPrompt,
		userPrompt, extractionTemperature, extractionMaxTokens, extractionTimeoutMs, fingerprint)
	if result.Meta == nil {
		return nil, "", fmt.Errorf("extraction: no configured provider produced a response")
	}

	raw := stripCodeFence(result.Text)

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("extraction: model response was not valid JSON: %w", err)
	}
	if err := extractionSchema.Validate(inst); err != nil {
		return nil, "", fmt.Errorf("extraction: model response failed schema validation: %w", err)
	}

	var ex extracted
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, "", fmt.Errorf("extraction: could not decode validated response: %w", err)
	}

	return &extractionOutcome{extracted: ex, modelID: result.Meta.ModelID, confidence: ex.Confidence}, raw, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func buildExtractionPrompt(in Input, apps []*models.Application) string {
	var b strings.Builder
	if in.Subject != nil {
		fmt.Fprintf(&b, "Subject: %s\n", *in.Subject)
	}
	if in.FromEmail != nil {
		fmt.Fprintf(&b, "From: %s\n", *in.FromEmail)
	}
	fmt.Fprintf(&b, "Received: %s\n", in.ReceivedAt.UTC().Format(time.RFC3339))
	if len(apps) > 0 {
		b.WriteString("Known applications (name: keywords): ")
		names := make([]string, 0, len(apps))
		for _, a := range apps {
			names = append(names, fmt.Sprintf("%s (%s)", a.Name, strings.Join(a.Keywords, ", ")))
		}
		b.WriteString(strings.Join(names, "; "))
		b.WriteString("\n")
	}
	b.WriteString("Body:\n")
	b.WriteString(in.BodySnippet)
	return b.String()
}

// resolveImplementation matches extraction.implementation_guess against
// the owner's applications by case-insensitive substring, gated on
// confidence >= 0.7 per §4.E step 6.
func resolveImplementation(guess *string, confidence *float64, apps []*models.Application) *string {
	if guess == nil || confidence == nil || *confidence < implementationGuessConfidenceFloor {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(*guess))
	if needle == "" {
		return nil
	}
	for _, a := range apps {
		if strings.Contains(strings.ToLower(a.Name), needle) || strings.Contains(needle, strings.ToLower(a.Name)) {
			id := a.ID
			return &id
		}
	}
	return nil
}

func (p *Pipeline) createTask(ctx context.Context, ownerID, inboxItemID string, result *extractionOutcome, apps []*models.Application) (string, error) {
	now := time.Now().UTC()

	taskType := models.TaskType(result.TaskType)
	if !taskType.IsValid() {
		taskType = models.TaskTypeTask
	}

	var dueAt *time.Time
	if result.DueGuessISO != nil {
		if parsed, err := time.Parse(time.RFC3339, *result.DueGuessISO); err == nil {
			dueAt = &parsed
		}
	}

	estimatedMinutes := 30
	if result.EstimatedMinutes != nil {
		estimatedMinutes = *result.EstimatedMinutes
	}

	boosts := priority.IntakeBoosts(result.StakeholderMentions, dueAt, now, p.cfg.Priority.HighPriorityStakeholders)
	finalPriority := clip(50+boosts, 0, 100)

	implementationID := resolveImplementation(result.ImplementationGuess, result.ImplementationConfidence, apps)
	needsReview := result.NeedsReview || result.Confidence < implementationGuessConfidenceFloor

	task := &models.Task{
		ID:                  newID(),
		OwnerID:             ownerID,
		Title:               result.Title,
		Description:         result.Description,
		ImplementationID:    implementationID,
		Status:              models.TaskStatusBacklog,
		Type:                taskType,
		PriorityScore:       finalPriority,
		EstimatedMinutes:    estimatedMinutes,
		EstimateSource:      models.EstimateSourceLLM,
		DueAt:               dueAt,
		NeedsReview:         needsReview,
		StakeholderMentions: result.StakeholderMentions,
		SourceType:          "Email",
		InboxItemID:         &inboxItemID,
	}
	if err := p.db.CreateTask(ctx, task); err != nil {
		return "", err
	}

	for i, text := range result.SuggestedChecklist {
		if strings.TrimSpace(text) == "" {
			continue
		}
		item := &models.ChecklistItem{ID: newID(), OwnerID: ownerID, TaskID: task.ID, Text: text, SortOrder: i}
		if err := p.db.CreateChecklistItem(ctx, item); err != nil {
			return "", err
		}
	}

	return task.ID, nil
}

func clip(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (p *Pipeline) logEvent(ctx context.Context, ownerID, inboxItemID string, kind models.IngestionEventKind, detail *string) {
	_ = p.db.AppendIngestionEvent(ctx, &models.IngestionEvent{
		ID:          newID(),
		OwnerID:     ownerID,
		InboxItemID: inboxItemID,
		Kind:        kind,
		Detail:      detail,
	})
}
