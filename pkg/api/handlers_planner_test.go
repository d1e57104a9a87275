package api

import (
	"encoding/json"
	"net/http"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanHandler_GetEmptyQueueWhenNoTasks(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/planner/plan", nil)
	require.NoError(t, s.planHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.PlanDate)
	assert.Nil(t, resp.NowNext)
	assert.Empty(t, resp.Queue)
}

func TestPlanHandler_RanksCreatedTask(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"title": "Prep board deck", "estimated_minutes": 30})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
	require.NoError(t, s.createTaskHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(e, http.MethodGet, "/api/v1/planner/plan", nil)
	require.NoError(t, s.planHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	total := len(resp.Queue)
	if resp.NowNext != nil {
		total++
	}
	total += len(resp.Next3)
	assert.Greater(t, total, 0)
}

func TestPlanHandler_PostOverridesPlanDate(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"plan_date": "2026-08-03"})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/planner/plan", body)
	require.NoError(t, s.planHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-03", resp.PlanDate)
}
