package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/briefing"
	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/extraction"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/planner"
	"github.com/bvquist1400/mission-control/pkg/services"
	"github.com/bvquist1400/mission-control/pkg/store"
	"github.com/bvquist1400/mission-control/test/util"
)

// testOwner is the owner id every handler test request is set up for.
const testOwner = "owner-test"

// ownerContextKey mirrors the unexported key auth.Middleware sets;
// handler tests bypass the gate and set it directly.
const ownerContextKey = "mission_control_owner_id"

// newTestServer wires a Server against a real, empty test database and
// a default (no-file) configuration, mirroring cmd/missioncontrold's
// wiring without an HTTP listener.
func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	pool := util.SetupTestDatabase(t)
	db := store.New(pool)

	cfg, err := config.Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)

	gate := auth.NewGate(cfg.Admission)

	tasks := services.NewTaskService(db, cfg)
	applications := services.NewApplicationService(db)
	focus := services.NewFocusService(db)
	calendar := services.NewCalendarService(db, cfg)
	plannerSvc := planner.New(db, cfg)
	dispatcher := services.NewDispatcher(cfg, db, nil)
	briefingSvc := briefing.New(db, cfg, dispatcher)
	extractionSvc := extraction.New(db, cfg, dispatcher)

	s := NewServer(cfg, gate, db, tasks, applications, focus, calendar, plannerSvc, briefingSvc, extractionSvc)
	return s, db
}

// fakeProvider stands in for a real anthropic/OpenAI SDK client,
// returning generateFn's output without touching the network. The
// built-in default chains put anthropic first for both
// intake_extraction and briefing_narrative, so registering it under
// models.ProviderAnthropic is enough to make the dispatcher pick it.
type fakeProvider struct {
	name       models.LLMProvider
	generateFn func(req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error)
}

func (f *fakeProvider) Name() models.LLMProvider { return f.name }
func (f *fakeProvider) Configured() bool         { return true }
func (f *fakeProvider) Generate(_ context.Context, req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error) {
	return f.generateFn(req)
}

// newTestServerWithLLM is newTestServer with a fake LLM provider wired
// in, for exercising code paths that only run once a provider is
// configured (extraction, narrative generation).
func newTestServerWithLLM(t *testing.T, generateFn func(req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error)) (*Server, *store.Store) {
	t.Helper()

	pool := util.SetupTestDatabase(t)
	db := store.New(pool)

	cfg, err := config.Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)

	gate := auth.NewGate(cfg.Admission)

	tasks := services.NewTaskService(db, cfg)
	applications := services.NewApplicationService(db)
	focus := services.NewFocusService(db)
	calendar := services.NewCalendarService(db, cfg)
	plannerSvc := planner.New(db, cfg)
	providers := map[models.LLMProvider]llmdispatch.Provider{
		models.ProviderAnthropic: &fakeProvider{name: models.ProviderAnthropic, generateFn: generateFn},
	}
	dispatcher := services.NewDispatcher(cfg, db, providers)
	briefingSvc := briefing.New(db, cfg, dispatcher)
	extractionSvc := extraction.New(db, cfg, dispatcher)

	s := NewServer(cfg, gate, db, tasks, applications, focus, calendar, plannerSvc, briefingSvc, extractionSvc)
	return s, db
}

// newTestContext builds an echo.Context for target already admitted as
// testOwner, skipping the admission gate entirely.
func newTestContext(e *echo.Echo, method, target string, body []byte) (*echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ownerContextKey, testOwner)
	return c, rec
}
