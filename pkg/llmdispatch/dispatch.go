// Package llmdispatch implements per-feature model routing, a
// provider-fallback chain, request invocation with timeout/cancellation,
// and usage telemetry, per §4.D of the component design.
package llmdispatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// Provider is the minimal contract a provider-specific adapter must
// satisfy. Each adapter owns translating Generate into its own SDK calls.
type Provider interface {
	Name() models.LLMProvider
	Configured() bool
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// GenerateRequest is the normalized request shape passed to a provider.
type GenerateRequest struct {
	ModelID      string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// GenerateResult is the normalized response shape returned by a provider.
type GenerateResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Candidate is one entry in the resolved dispatch chain.
type Candidate struct {
	Provider    models.LLMProvider
	ModelID     string
	Source      models.ModelSource
	InputPrice  *float64
	OutputPrice *float64
}

// CatalogLookup resolves a catalog id to a Candidate-shaped row.
type CatalogLookup interface {
	ByID(catalogID string) (models.LLMModelCatalog, bool)
}

// PreferenceLookup resolves a user's per-feature model preference.
type PreferenceLookup interface {
	Preference(ownerID string, feature models.LLMFeature) (catalogID string, ok bool)
}

// DefaultChain resolves the built-in fallback chain for a feature.
type DefaultChain interface {
	ChainFor(feature models.LLMFeature) []models.LLMModelCatalog
}

// UsageRecorder persists one LLM usage event. Implementations must never
// drop a usage event on the happy path (§5 ordering guarantee (iii)).
type UsageRecorder interface {
	Record(ctx context.Context, event models.LLMUsageEvent) error
}

// Result is what generateText returns on success, or the zero value
// ({Text: "", Meta nil}) when every candidate in the chain failed.
type Result struct {
	Text string
	Meta *ResultMeta
}

// ResultMeta carries the attribution fields callers need for display or
// further accounting.
type ResultMeta struct {
	Provider         models.LLMProvider
	ModelID          string
	Source           models.ModelSource
	EstimatedCostUSD *float64
	LatencyMs        int
}

// Dispatcher implements generateText.
type Dispatcher struct {
	Providers    map[models.LLMProvider]Provider
	Preferences  PreferenceLookup
	Catalog      CatalogLookup
	DefaultChain DefaultChain
	Usage        UsageRecorder
}

// ResolveCandidates builds the ordered candidate list per §4.D's
// resolution order, deduplicated by provider x model id.
func (d *Dispatcher) ResolveCandidates(ownerID string, feature models.LLMFeature) []Candidate {
	seen := map[string]bool{}
	var out []Candidate

	add := func(row models.LLMModelCatalog, source models.ModelSource) {
		key := string(row.Provider) + "|" + row.ProviderModelID
		if seen[key] || !row.Enabled {
			return
		}
		seen[key] = true
		out = append(out, Candidate{
			Provider:    row.Provider,
			ModelID:     row.ProviderModelID,
			Source:      source,
			InputPrice:  row.InputPricePer1M,
			OutputPrice: row.OutputPricePer1M,
		})
	}

	if catalogID, ok := d.Preferences.Preference(ownerID, feature); ok {
		if row, found := d.Catalog.ByID(catalogID); found && row.Enabled {
			add(row, models.ModelSourceFeatureOverride)
		}
	}
	if catalogID, ok := d.Preferences.Preference(ownerID, models.FeatureGlobalDefault); ok {
		if row, found := d.Catalog.ByID(catalogID); found && row.Enabled {
			add(row, models.ModelSourceGlobalDefault)
		}
	}
	for _, row := range d.DefaultChain.ChainFor(feature) {
		add(row, models.ModelSourceDefault)
	}

	return out
}

// GenerateText resolves candidates, invokes each in order until one
// succeeds, and records a usage event for every attempt including
// skips. It never returns an error: total exhaustion yields a
// zero-value Result per the contract.
func (d *Dispatcher) GenerateText(ctx context.Context, ownerID string, feature models.LLMFeature, systemPrompt, userPrompt string, temperature float64, maxTokens int, timeoutMs int, requestFingerprint string) Result {
	candidates := d.ResolveCandidates(ownerID, feature)

	for _, cand := range candidates {
		provider, ok := d.Providers[cand.Provider]
		if !ok || !provider.Configured() {
			d.recordUsage(ctx, ownerID, feature, cand, models.UsageStatusSkippedUnconfigured, 0, 0, 0, requestFingerprint)
			continue
		}

		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		res, err := provider.Generate(callCtx, GenerateRequest{
			ModelID:      cand.ModelID,
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  temperature,
			MaxTokens:    maxTokens,
		})
		cancel()
		latencyMs := int(time.Since(start).Milliseconds())

		if err != nil {
			status := classifyFailure(callCtx, err)
			d.recordUsage(ctx, ownerID, feature, cand, status, latencyMs, 0, 0, requestFingerprint)
			continue
		}

		text := collapseWhitespace(strings.TrimSpace(res.Text))
		cost := estimateCost(cand, res.InputTokens, res.OutputTokens)
		d.recordUsageWithTokens(ctx, ownerID, feature, cand, models.UsageStatusSuccess, latencyMs, res.InputTokens, res.OutputTokens, cost, requestFingerprint)

		return Result{
			Text: text,
			Meta: &ResultMeta{
				Provider:         cand.Provider,
				ModelID:          cand.ModelID,
				Source:           cand.Source,
				EstimatedCostUSD: cost,
				LatencyMs:        latencyMs,
			},
		}
	}

	return Result{}
}

func classifyFailure(ctx context.Context, err error) models.UsageStatus {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.UsageStatusTimeout
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return models.UsageStatusTimeout
	}
	return models.UsageStatusError
}

func estimateCost(cand Candidate, inputTokens, outputTokens int) *float64 {
	if cand.InputPrice == nil || cand.OutputPrice == nil {
		return nil
	}
	cost := float64(inputTokens)*(*cand.InputPrice)/1e6 + float64(outputTokens)*(*cand.OutputPrice)/1e6
	return &cost
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func (d *Dispatcher) recordUsage(ctx context.Context, ownerID string, feature models.LLMFeature, cand Candidate, status models.UsageStatus, latencyMs, inputTokens, outputTokens int, fingerprint string) {
	d.recordUsageWithTokens(ctx, ownerID, feature, cand, status, latencyMs, inputTokens, outputTokens, nil, fingerprint)
}

func (d *Dispatcher) recordUsageWithTokens(ctx context.Context, ownerID string, feature models.LLMFeature, cand Candidate, status models.UsageStatus, latencyMs, inputTokens, outputTokens int, cost *float64, fingerprint string) {
	provider := string(cand.Provider)
	modelID := cand.ModelID
	source := cand.Source
	event := models.LLMUsageEvent{
		OwnerID:            ownerID,
		Feature:            string(feature),
		Status:             status,
		LatencyMs:          latencyMs,
		InputTokens:        inputTokens,
		OutputTokens:       outputTokens,
		EstimatedCostUSD:   cost,
		RequestFingerprint: &fingerprint,
		CreatedAt:          time.Now(),
	}
	if provider != "" {
		event.Provider = &provider
	}
	if modelID != "" {
		event.ModelID = &modelID
	}
	if cand.Provider != "" {
		event.ModelSource = &source
	}
	// Usage logging is best-effort: a failure here must never surface to
	// the caller per §7 propagation policy.
	_ = d.Usage.Record(ctx, event)
}

// Fingerprint computes a stable request fingerprint for caching/telemetry.
func Fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
