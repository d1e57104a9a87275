package api

import (
	"encoding/json"
	"net/http"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDirective(t *testing.T, s *Server, e *echo.Echo, scopeType, scopeValue string, active bool) focusDirectiveDTO {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"text":        "Prioritize migration work",
		"scope_type":  scopeType,
		"scope_value": scopeValue,
		"is_active":   active,
	})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/focus", body)
	require.NoError(t, s.createFocusHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var directive focusDirectiveDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directive))
	return directive
}

func TestCreateFocusHandler_RequiresScopeValueForQueryScope(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"text": "Focus on X", "scope_type": "query"})
	require.NoError(t, err)
	c, _ := newTestContext(e, http.MethodPost, "/api/v1/focus", body)

	err = s.createFocusHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestListFocusHandler_ReturnsOnlyActiveByDefault(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	createTestDirective(t, s, e, "query", "migration", false)
	active := createTestDirective(t, s, e, "query", "launch readiness", true)

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/focus", nil)
	require.NoError(t, s.listFocusHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var directives []focusDirectiveDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directives))
	require.Len(t, directives, 1)
	assert.Equal(t, active.ID, directives[0].ID)
}

func TestListFocusHandler_HistoryIncludesInactive(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	createTestDirective(t, s, e, "query", "migration", false)
	createTestDirective(t, s, e, "query", "launch readiness", true)

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/focus?history=true", nil)
	require.NoError(t, s.listFocusHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var directives []focusDirectiveDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directives))
	assert.Len(t, directives, 2)
}

func TestPatchFocusHandler_ActivatingDeactivatesOthers(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	first := createTestDirective(t, s, e, "query", "migration", true)
	second := createTestDirective(t, s, e, "query", "launch readiness", false)

	body, err := json.Marshal(map[string]any{"is_active": true})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPatch, "/api/v1/focus/"+second.ID, body)
	c.SetParamNames("id")
	c.SetParamValues(second.ID)
	require.NoError(t, s.patchFocusHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(e, http.MethodGet, "/api/v1/focus", nil)
	require.NoError(t, s.listFocusHandler(c))
	var directives []focusDirectiveDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directives))
	require.Len(t, directives, 1)
	assert.Equal(t, second.ID, directives[0].ID)
	assert.NotEqual(t, first.ID, directives[0].ID)
}

func TestClearFocusHandler(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	createTestDirective(t, s, e, "query", "migration", true)

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/focus/clear", nil)
	require.NoError(t, s.clearFocusHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newTestContext(e, http.MethodGet, "/api/v1/focus", nil)
	require.NoError(t, s.listFocusHandler(c))
	var directives []focusDirectiveDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directives))
	assert.Empty(t, directives)
}
