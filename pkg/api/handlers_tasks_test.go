package api

import (
	"encoding/json"
	"net/http"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetTaskHandler(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{
		"title":             "Write onboarding doc",
		"estimated_minutes": 45,
	})
	require.NoError(t, err)

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
	require.NoError(t, s.createTaskHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created taskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Write onboarding doc", created.Title)
	assert.Equal(t, 45, created.EstimatedMinutes)
	assert.NotEmpty(t, created.ID)

	c, rec = newTestContext(e, http.MethodGet, "/api/v1/tasks/"+created.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.getTaskHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched taskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Empty(t, fetched.ChecklistItems)
}

func TestGetTaskHandler_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	c, _ := newTestContext(e, http.MethodGet, "/api/v1/tasks/does-not-exist", nil)
	c.SetParamNames("id")
	c.SetParamValues("does-not-exist")

	err := s.getTaskHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCreateTaskHandler_ValidationError(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"title": ""})
	require.NoError(t, err)

	c, _ := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
	err = s.createTaskHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestPatchTaskHandler_RecomputesPriorityOnStatusChange(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"title": "Ship release notes"})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
	require.NoError(t, s.createTaskHandler(c))
	var created taskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	patchBody, err := json.Marshal(map[string]any{"status": "Done"})
	require.NoError(t, err)
	c, rec = newTestContext(e, http.MethodPatch, "/api/v1/tasks/"+created.ID, patchBody)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.patchTaskHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var patched taskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, "Done", patched.Status)
}

func TestDeleteTaskHandler(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{"title": "Throwaway task"})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
	require.NoError(t, s.createTaskHandler(c))
	var created taskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	c, rec = newTestContext(e, http.MethodDelete, "/api/v1/tasks/"+created.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.deleteTaskHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = newTestContext(e, http.MethodGet, "/api/v1/tasks/"+created.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	err = s.getTaskHandler(c)
	require.Error(t, err)
}

func TestListTasksHandler(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	for _, title := range []string{"Task A", "Task B"} {
		body, err := json.Marshal(map[string]any{"title": title})
		require.NoError(t, err)
		c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
		require.NoError(t, s.createTaskHandler(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/tasks", nil)
	require.NoError(t, s.listTasksHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []taskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestCreateDependencyHandler_RejectsCircular(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	makeTask := func(title string) taskDTO {
		body, err := json.Marshal(map[string]any{"title": title})
		require.NoError(t, err)
		c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks", body)
		require.NoError(t, s.createTaskHandler(c))
		var task taskDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		return task
	}

	a := makeTask("A")
	b := makeTask("B")

	depBody, err := json.Marshal(map[string]any{"depends_on_task_id": b.ID})
	require.NoError(t, err)
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/tasks/"+a.ID+"/dependencies", depBody)
	c.SetParamNames("id")
	c.SetParamValues(a.ID)
	require.NoError(t, s.createDependencyHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	cycleBody, err := json.Marshal(map[string]any{"depends_on_task_id": a.ID})
	require.NoError(t, err)
	c, _ = newTestContext(e, http.MethodPost, "/api/v1/tasks/"+b.ID+"/dependencies", cycleBody)
	c.SetParamNames("id")
	c.SetParamValues(b.ID)

	err = s.createDependencyHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
