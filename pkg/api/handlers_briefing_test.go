package api

import (
	"encoding/json"
	"net/http"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBriefingHandler_DefaultsToAutoMode(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/briefing", nil)
	require.NoError(t, s.getBriefingHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["requestedDate"])
	assert.NotEmpty(t, resp["autoDetectedMode"])
}

func TestBriefingNarrativeHandler_RequiresRequestedDateAndMode(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"briefing": map[string]any{}})
	require.NoError(t, err)
	c, _ := newTestContext(e, http.MethodPost, "/api/v1/briefing/narrative", body)

	err = s.briefingNarrativeHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestBriefingNarrativeHandler_NoProvidersConfiguredReturnsEmptyNarrative(t *testing.T) {
	s, _ := newTestServer(t)
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
