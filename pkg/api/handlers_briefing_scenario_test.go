package api

import (
	"encoding/json"
	"net/http"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
)

// TestBriefingNarrativeHandler_RejectsBulletedResponse exercises the §8
// narrative-validation scenario: a model response shaped as a bulleted
// list fails validation and the handler degrades to an empty narrative
// rather than surfacing the bullets.
func TestBriefingNarrativeHandler_RejectsBulletedResponse(t *testing.T) {
	s, _ := newTestServerWithLLM(t, func(req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error) {
		return llmdispatch.GenerateResult{Text: "- point one\n- point two\n- point three", InputTokens: 50, OutputTokens: 20}, nil
	})
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/briefing", nil)
	require.NoError(t, s.getBriefingHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := json.Marshal(map[string]json.RawMessage{"briefing": rec.Body.Bytes()})
	require.NoError(t, err)

	c, rec = newTestContext(e, http.MethodPost, "/api/v1/briefing/narrative", body)
	require.NoError(t, s.briefingNarrativeHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp narrativeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Narrative)
	assert.Nil(t, resp.LLM)
}

// TestBriefingNarrativeHandler_AcceptsPlainSentenceResponse is the
// positive counterpart: a short plain-text response with no bullets or
// line breaks passes validation and is returned with its attribution.
func TestBriefingNarrativeHandler_AcceptsPlainSentenceResponse(t *testing.T) {
	s, _ := newTestServerWithLLM(t, func(req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error) {
		return llmdispatch.GenerateResult{Text: "Today is light, with one renewal call and no blockers.", InputTokens: 50, OutputTokens: 20}, nil
	})
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/briefing", nil)
	require.NoError(t, s.getBriefingHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := json.Marshal(map[string]json.RawMessage{"briefing": rec.Body.Bytes()})
	require.NoError(t, err)

	c, rec = newTestContext(e, http.MethodPost, "/api/v1/briefing/narrative", body)
	require.NoError(t, s.briefingNarrativeHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp narrativeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Narrative)
	require.NotNil(t, resp.LLM)
}
