package api

import (
	"encoding/json"
	"net/http"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeEmailHandler_NoProviderConfiguredReturnsBadGateway(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{
		"subject":      "Please review the Q3 roadmap",
		"from_email":   "pm@example.com",
		"message_id":   "msg-1",
		"body_snippet": "Can you take a look at the attached roadmap before Friday?",
	})
	require.NoError(t, err)

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/intake/email", body)
	require.NoError(t, s.intakeEmailHandler(c))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp intakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.InboxItemID)
	assert.Nil(t, resp.TaskID)
}

func TestIntakeEmailHandler_DuplicateMessageDedupes(t *testing.T) {
	s, _ := newTestServer(t)
	e := echo.New()

	body, err := json.Marshal(map[string]any{
		"subject":      "Please review the Q3 roadmap",
		"from_email":   "pm@example.com",
		"message_id":   "msg-dup",
		"body_snippet": "Can you take a look before Friday?",
	})
	require.NoError(t, err)

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/intake/email", body)
	require.NoError(t, s.intakeEmailHandler(c))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var first intakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	c, rec = newTestContext(e, http.MethodPost, "/api/v1/intake/email", body)
	require.NoError(t, s.intakeEmailHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var second intakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.InboxItemID, second.InboxItemID)
	assert.True(t, second.Deduped)
}
