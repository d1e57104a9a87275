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

// TestIntakeEmailHandler_DedupeWithConfiguredProvider exercises the §8
// intake-dedupe scenario end to end: the first post with a given
// message_id creates a task, the second returns the same inbox item
// without creating anything new.
func TestIntakeEmailHandler_DedupeWithConfiguredProvider(t *testing.T) {
	extractedJSON := `{"title":"Review the Q3 roadmap","task_type":"Task","confidence":0.9,"needs_review":false,"stakeholder_mentions":[],"suggested_checklist":[]}`
	s, _ := newTestServerWithLLM(t, func(req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error) {
		return llmdispatch.GenerateResult{Text: extractedJSON, InputTokens: 100, OutputTokens: 40}, nil
	})
	e := echo.New()

	body, err := json.Marshal(map[string]any{
		"subject":      "Please review the Q3 roadmap",
		"from_email":   "pm@example.com",
		"message_id":   "<abc@x>",
		"body_snippet": "Can you take a look at the attached roadmap before Friday?",
	})
	require.NoError(t, err)

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/intake/email", body)
	require.NoError(t, s.intakeEmailHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var first intakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.False(t, first.Deduped)
	require.NotNil(t, first.TaskID)

	c, rec = newTestContext(e, http.MethodPost, "/api/v1/intake/email", body)
	require.NoError(t, s.intakeEmailHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var second intakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Deduped)
	assert.Equal(t, first.InboxItemID, second.InboxItemID)
}
