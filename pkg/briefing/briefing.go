// Package briefing implements the Daily Briefing Composer: deterministic
// morning/midday/eod aggregation of calendar and task state, plus a
// cached LLM narrative over that aggregation, per §4.G.
package briefing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bvquist1400/mission-control/pkg/calendar"
	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// Mode is one of the briefing's three report modes.
type Mode string

const (
	ModeMorning Mode = "morning"
	ModeMidday  Mode = "midday"
	ModeEod     Mode = "eod"
	ModeAuto    Mode = "auto"
)

const narrativeTimeoutMs = 4500
const narrativeMaxTokens = 220
const narrativeTemperature = 0.4

// systemPrompt is verbatim per §6.
const systemPrompt = "You are a concise executive assistant. Write exactly 2-3 sentences. " +
	"Be direct and specific, mentioning concrete task names, meeting titles, and times. " +
	"Do not use bullet points. Do not use motivational language. Only use details present in the provided context."

// NarrativeMeta carries the dispatch attribution returned alongside a
// generated or cached narrative.
type NarrativeMeta struct {
	Provider         models.LLMProvider `json:"provider"`
	ModelID          string             `json:"model_id"`
	Source           models.ModelSource `json:"source"`
	CacheStatus      string             `json:"cache_status"`
	EstimatedCostUSD *float64           `json:"estimated_cost_usd,omitempty"`
	LatencyMs        int                `json:"latency_ms"`
}

// ProgressStats summarizes today's completion state.
type ProgressStats struct {
	CompletedCount   int `json:"completed_count"`
	TotalCount       int `json:"total_count"`
	CompletedMinutes int `json:"completed_minutes"`
	RemainingMinutes int `json:"remaining_minutes"`
	PercentComplete  int `json:"percent_complete"`
}

// CapacityRAG is the red/amber/green label for today's workload.
type CapacityRAG string

const (
	RAGGreen  CapacityRAG = "Green"
	RAGYellow CapacityRAG = "Yellow"
	RAGRed    CapacityRAG = "Red"
)

// CapacityStats compares minutes required by open tasks against minutes
// actually available in the workday window.
type CapacityStats struct {
	AvailableMinutes int         `json:"available_minutes"`
	RequiredMinutes  int         `json:"required_minutes"`
	RAG              CapacityRAG `json:"rag"`
}

// TodaySummary is the common aggregation produced for every mode.
type TodaySummary struct {
	Calendar  calendar.DayStats `json:"-"`
	Planned   []*models.Task    `json:"planned"`
	Completed []*models.Task    `json:"completed"`
	Remaining []*models.Task    `json:"remaining"`
	Progress  ProgressStats     `json:"progress"`
	Capacity  CapacityStats     `json:"capacity"`
}

// PrepTask is a tomorrow-relevant task surfaced by the eod report.
type PrepTask struct {
	Task   *models.Task `json:"task"`
	Reason string       `json:"reason"`
}

// TomorrowSummary is produced only for the eod report.
type TomorrowSummary struct {
	Calendar   calendar.DayStats `json:"-"`
	PrepTasks  []PrepTask        `json:"prep_tasks"`
	RolledOver []*models.Task    `json:"rolled_over"`
}

// Briefing is the full aggregation for one owner/date/mode.
type Briefing struct {
	RequestedDate    string           `json:"requestedDate"`
	Mode             Mode             `json:"mode"`
	AutoDetectedMode Mode             `json:"autoDetectedMode,omitempty"`
	CurrentTimeET    string           `json:"currentTimeET"`
	Today            TodaySummary     `json:"today"`
	Tomorrow         *TomorrowSummary `json:"tomorrow,omitempty"`
}

// Composer builds briefings and their cached narratives.
type Composer struct {
	db         *store.Store
	cfg        *config.Config
	dispatcher *llmdispatch.Dispatcher
	cache      *narrativeCache
}

func New(db *store.Store, cfg *config.Config, dispatcher *llmdispatch.Dispatcher) *Composer {
	return &Composer{db: db, cfg: cfg, dispatcher: dispatcher, cache: newNarrativeCache()}
}

func (c *Composer) location() *time.Location {
	loc, err := time.LoadLocation(c.cfg.Workday.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Composer) focusHours() calendar.FocusHours {
	wd := c.cfg.Workday
	return calendar.FocusHours{
		StartHour: wd.FocusStartHour, StartMinute: wd.FocusStartMin,
		EndHour: wd.FocusEndHour, EndMinute: wd.FocusEndMin, Location: c.location(),
	}
}

// ResolveMode resolves "auto" to morning (<12 ET), midday (12-14 ET), or
// eod (>=15 ET); any other mode passes through unchanged.
func ResolveMode(mode Mode, nowET time.Time) Mode {
	if mode != ModeAuto {
		return mode
	}
	hour := nowET.Hour()
	switch {
	case hour < 12:
		return ModeMorning
	case hour < 15:
		return ModeMidday
	default:
		return ModeEod
	}
}

// Aggregate builds the full Briefing for ownerID at requestedDate
// (YYYY-MM-DD in workday TZ; empty defaults to today) and mode.
func (c *Composer) Aggregate(ctx context.Context, ownerID, requestedDate string, mode Mode, now time.Time) (*Briefing, error) {
	loc := c.location()
	nowET := now.In(loc)
	if requestedDate == "" {
		requestedDate = nowET.Format("2006-01-02")
	}

	var autoDetected Mode
	resolved := mode
	if mode == ModeAuto || mode == "" {
		resolved = ResolveMode(ModeAuto, nowET)
		autoDetected = resolved
	}

	today, err := c.aggregateToday(ctx, ownerID, requestedDate, now)
	if err != nil {
		return nil, err
	}

	b := &Briefing{
		RequestedDate:    requestedDate,
		Mode:             resolved,
		AutoDetectedMode: autoDetected,
		CurrentTimeET:    nowET.Format(time.RFC3339),
		Today:            *today,
	}

	if resolved == ModeEod {
		tomorrow, err := c.aggregateTomorrow(ctx, ownerID, requestedDate, today.Remaining, now)
		if err != nil {
			return nil, err
		}
		b.Tomorrow = tomorrow
	}

	return b, nil
}

func (c *Composer) aggregateToday(ctx context.Context, ownerID, date string, now time.Time) (*TodaySummary, error) {
	fh := c.focusHours()
	start, end, err := calendar.NormalizeRange(date, date, fh)
	if err != nil {
		return nil, &store.ValidationError{Field: "date", Message: err.Error()}
	}
	windows := calendar.Windows(start, end, fh)

	events, err := c.db.ListCalendarEventsInRange(ctx, ownerID, windows[0].StartAt, windows[0].EndAt)
	if err != nil {
		return nil, err
	}
	eventModels := make([]models.CalendarEvent, len(events))
	for i, e := range events {
		eventModels[i] = *e
	}
	day := calendar.ComputeDay(windows[0], eventModels, &now)

	tasks, err := c.db.ListTasks(ctx, ownerID, store.ListTasksOptions{})
	if err != nil {
		return nil, err
	}

	dayStart := windows[0].StartAt
	dayBoundary := windows[0].EndAt.AddDate(0, 0, 1)

	var planned, completed, remaining []*models.Task
	completedMinutes, remainingMinutes := 0, 0
	for _, t := range tasks {
		switch {
		case t.Status == models.TaskStatusDone:
			if !t.UpdatedAt.Before(dayStart) && t.UpdatedAt.Before(dayBoundary) {
				completed = append(completed, t)
				completedMinutes += t.EstimatedMinutes
			}
		case t.Status == models.TaskStatusPlanned || t.Status == models.TaskStatusInProgress:
			planned = append(planned, t)
			remaining = append(remaining, t)
			remainingMinutes += t.EstimatedMinutes
		default:
			remaining = append(remaining, t)
			remainingMinutes += t.EstimatedMinutes
		}
	}

	totalCount := len(completed) + len(remaining)
	percent := 0
	if denom := completedMinutes + remainingMinutes; denom > 0 {
		percent = round(100 * float64(completedMinutes) / float64(denom))
	}

	workdayMinutes := int(windows[0].EndAt.Sub(windows[0].StartAt).Minutes())
	capacityCfg := c.cfg.Capacity
	available := workdayMinutes - capacityCfg.LunchMinutes - capacityCfg.OverheadMinutes - day.BusyMinutes
	available -= len(remaining) * capacityCfg.PerTaskBufferMinutes
	if available < 0 {
		available = 0
	}
	rag := RAGGreen
	switch {
	case float64(remainingMinutes) <= 0.8*float64(available):
		rag = RAGGreen
	case float64(remainingMinutes) <= 1.1*float64(available):
		rag = RAGYellow
	default:
		rag = RAGRed
	}

	return &TodaySummary{
		Calendar:  day,
		Planned:   planned,
		Completed: completed,
		Remaining: remaining,
		Progress: ProgressStats{
			CompletedCount:   len(completed),
			TotalCount:       totalCount,
			CompletedMinutes: completedMinutes,
			RemainingMinutes: remainingMinutes,
			PercentComplete:  percent,
		},
		Capacity: CapacityStats{AvailableMinutes: available, RequiredMinutes: remainingMinutes, RAG: rag},
	}, nil
}

var stopwords = map[string]bool{
	"meeting": true, "sync": true, "weekly": true, "prep": true, "call": true,
	"with": true, "the": true, "and": true, "for": true, "review": true,
	"a": true, "of": true, "to": true, "on": true,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func tokenize(s string) []string {
	lower := strings.ToLower(s)
	normalized := nonAlnum.ReplaceAllString(lower, " ")
	var tokens []string
	for _, tok := range strings.Fields(normalized) {
		if tok == "" || stopwords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func overlapRatio(taskTokens, eventTokens []string) float64 {
	if len(taskTokens) == 0 {
		return 0
	}
	eventSet := make(map[string]bool, len(eventTokens))
	for _, t := range eventTokens {
		eventSet[t] = true
	}
	matched := 0
	for _, t := range taskTokens {
		if eventSet[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(taskTokens))
}

func (c *Composer) aggregateTomorrow(ctx context.Context, ownerID, todayDate string, remainingToday []*models.Task, now time.Time) (*TomorrowSummary, error) {
	fh := c.focusHours()
	todayStart, err := time.ParseInLocation("2006-01-02", todayDate, fh.Location)
	if err != nil {
		return nil, &store.ValidationError{Field: "date", Message: "invalid date"}
	}
	tomorrowDate := todayStart.AddDate(0, 0, 1).Format("2006-01-02")

	start, end, err := calendar.NormalizeRange(tomorrowDate, tomorrowDate, fh)
	if err != nil {
		return nil, &store.ValidationError{Field: "date", Message: err.Error()}
	}
	windows := calendar.Windows(start, end, fh)

	events, err := c.db.ListCalendarEventsInRange(ctx, ownerID, windows[0].StartAt, windows[0].EndAt)
	if err != nil {
		return nil, err
	}
	eventModels := make([]models.CalendarEvent, len(events))
	for i, e := range events {
		eventModels[i] = *e
	}
	day := calendar.ComputeDay(windows[0], eventModels, nil)

	tasks, err := c.db.ListTasks(ctx, ownerID, store.ListTasksOptions{ExcludeDone: true})
	if err != nil {
		return nil, err
	}

	todayEnd := windows[0].EndAt.Add(-24 * time.Hour)
	var prep []PrepTask
	var rolledOver []*models.Task
	for _, t := range tasks {
		if reason, ok := prepReason(t, events, windows[0]); ok {
			prep = append(prep, PrepTask{Task: t, Reason: reason})
		}
		if t.DueAt != nil && !t.DueAt.After(todayEnd) {
			rolledOver = append(rolledOver, t)
			continue
		}
		if t.PriorityScore >= 70 && (t.Status == models.TaskStatusPlanned || t.Status == models.TaskStatusInProgress) {
			rolledOver = append(rolledOver, t)
		}
	}

	return &TomorrowSummary{Calendar: day, PrepTasks: prep, RolledOver: rolledOver}, nil
}

func prepReason(t *models.Task, tomorrowEvents []*models.CalendarEvent, tomorrowWindow calendar.DayWindow) (string, bool) {
	if t.Status == models.TaskStatusDone {
		return "", false
	}
	titleTokens := tokenize(t.Title)

	if t.Type == models.TaskTypeMeetingPrep {
		for _, ev := range tomorrowEvents {
			if overlapRatio(titleTokens, tokenize(ev.Title)) > 0 {
				return fmt.Sprintf("Preparation for %q", ev.Title), true
			}
		}
		return "Meeting preparation task", true
	}

	for _, ev := range tomorrowEvents {
		eventTokens := tokenize(ev.Title)
		ratio := overlapRatio(titleTokens, eventTokens)
		if ratio > 0 && ratio >= 0.3 {
			return fmt.Sprintf("Title overlaps with %q", ev.Title), true
		}
	}

	if t.DueAt != nil && t.EstimatedMinutes >= 60 && !t.DueAt.Before(tomorrowWindow.StartAt) && t.DueAt.Before(tomorrowWindow.EndAt) {
		return "Due tomorrow and estimated at an hour or more", true
	}

	return "", false
}

func newID() string { return uuid.NewString() }

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// bulletPattern matches a leading bullet marker on any line.
var bulletPattern = regexp.MustCompile(`(?m)^\s*[-*•]`)

// validateNarrative enforces §4.G's acceptance rules: non-empty, no
// bullets, no newlines, at most 3 sentences.
func validateNarrative(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if bulletPattern.MatchString(text) {
		return false
	}
	if strings.Contains(text, "\n") {
		return false
	}
	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	return sentences <= 3
}

// NarrativeResult is the response shape for the narrative endpoint.
type NarrativeResult struct {
	Mode      Mode           `json:"mode"`
	Narrative string         `json:"narrative"`
	LLM       *NarrativeMeta `json:"llm"`
}

// GenerateNarrative builds context from b, checks the process-wide
// cache, and falls through to the dispatcher on a miss. Cache hits
// record their own cache_hit usage event directly, bypassing the
// dispatcher entirely per §4.G.
func (c *Composer) GenerateNarrative(ctx context.Context, ownerID string, b *Briefing, now time.Time) (*NarrativeResult, error) {
	c.cache.prune(now)

	contextJSON, err := json.Marshal(narrativeContext(b))
	if err != nil {
		return nil, &store.ValidationError{Field: "briefing", Message: "could not serialize briefing context"}
	}
	sum := sha256.Sum256(contextJSON)
	contextHash := hex.EncodeToString(sum[:])

	modelScope := c.modelScope(ownerID)
	cacheKey := strings.Join([]string{ownerID, b.RequestedDate, string(b.Mode), modelScope, contextHash}, "|")

	if entry, ok := c.cache.get(cacheKey, now); ok {
		c.recordCacheHit(ctx, ownerID, entry.meta, cacheKey)
		return &NarrativeResult{Mode: b.Mode, Narrative: entry.text, LLM: entry.meta}, nil
	}

	fingerprint := llmdispatch.Fingerprint(ownerID, b.RequestedDate, string(b.Mode), contextHash)
	result := c.dispatcher.GenerateText(ctx, ownerID, models.FeatureBriefingNarrative, systemPrompt,
		string(contextJSON), narrativeTemperature, narrativeMaxTokens, narrativeTimeoutMs, fingerprint)

	if result.Meta == nil || !validateNarrative(result.Text) {
		return &NarrativeResult{Mode: b.Mode, Narrative: "", LLM: nil}, nil
	}

	meta := &NarrativeMeta{
		Provider: result.Meta.Provider, ModelID: result.Meta.ModelID, Source: result.Meta.Source,
		CacheStatus: "miss", EstimatedCostUSD: result.Meta.EstimatedCostUSD, LatencyMs: result.Meta.LatencyMs,
	}
	c.cache.set(cacheKey, cacheEntry{
		text: result.Text, meta: meta, expiresAt: now.Add(c.cfg.Retention.NarrativeCacheTTL),
	})

	return &NarrativeResult{Mode: b.Mode, Narrative: result.Text, LLM: meta}, nil
}

// modelScope identifies which resolved candidate chain this owner
// currently uses for the narrative feature, so a preference change
// invalidates stale cache entries.
func (c *Composer) modelScope(ownerID string) string {
	candidates := c.dispatcher.ResolveCandidates(ownerID, models.FeatureBriefingNarrative)
	if len(candidates) == 0 {
		return "none"
	}
	return string(candidates[0].Provider) + "/" + candidates[0].ModelID
}

func (c *Composer) recordCacheHit(ctx context.Context, ownerID string, meta *NarrativeMeta, fingerprint string) {
	var provider *models.LLMProvider
	var modelID *string
	var source *models.ModelSource
	if meta != nil {
		provider = &meta.Provider
		modelID = &meta.ModelID
		source = &meta.Source
	}
	cacheStatus := "hit"
	_ = c.db.RecordLLMUsageEvent(ctx, &models.LLMUsageEvent{
		ID:                 newID(),
		OwnerID:            ownerID,
		Feature:            string(models.FeatureBriefingNarrative),
		Provider:           provider,
		ModelID:            modelID,
		ModelSource:        source,
		Status:             models.UsageStatusCacheHit,
		LatencyMs:          0,
		CacheStatus:        &cacheStatus,
		RequestFingerprint: &fingerprint,
	})
}

// narrativeContext reduces a Briefing to the fields the LLM should see,
// per mode, so the prompt never grows with irrelevant data.
func narrativeContext(b *Briefing) map[string]any {
	ctxMap := map[string]any{
		"requestedDate": b.RequestedDate,
		"mode":          b.Mode,
		"today": map[string]any{
			"busyMinutes":     b.Today.Calendar.BusyMinutes,
			"focusBlocks":     focusBlockSummaries(b.Today.Calendar.FocusBlocks),
			"plannedTitles":   taskTitles(b.Today.Planned),
			"completedTitles": taskTitles(b.Today.Completed),
			"progress":        b.Today.Progress,
			"capacity":        b.Today.Capacity,
		},
	}
	if b.Tomorrow != nil {
		ctxMap["tomorrow"] = map[string]any{
			"busyMinutes":    b.Tomorrow.Calendar.BusyMinutes,
			"prepTaskTitles": prepTaskTitles(b.Tomorrow.PrepTasks),
			"rolledOverTitles": taskTitles(b.Tomorrow.RolledOver),
		}
	}
	return ctxMap
}

func taskTitles(tasks []*models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	sort.Strings(out)
	return out
}

func prepTaskTitles(prep []PrepTask) []string {
	out := make([]string, 0, len(prep))
	for _, p := range prep {
		out = append(out, p.Task.Title)
	}
	sort.Strings(out)
	return out
}

func focusBlockSummaries(blocks []calendar.FocusBlock) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, map[string]any{"kind": b.Kind, "minutes": b.Minutes})
	}
	return out
}
