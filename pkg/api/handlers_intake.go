package api

import (
	"errors"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/extraction"
)

type intakeResponse struct {
	InboxItemID string  `json:"inbox_item_id"`
	Deduped     bool    `json:"deduped"`
	TaskID      *string `json:"task_id,omitempty"`
	Message     string  `json:"message,omitempty"`
}

const duplicateEmailMessage = "Duplicate email, already processed"

// intakeEmailHandler handles POST /intake/email. A dedupe hit returns
// 200 with the existing inbox_item_id per §6; an extraction failure
// still surfaces the inbox item id alongside a 5xx so the caller can
// look up what went wrong.
func (s *Server) intakeEmailHandler(c *echo.Context) error {
	var req intakeEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	out, err := s.extraction.Intake(c.Request().Context(), auth.OwnerID(c), extraction.Input{
		Subject:     req.Subject,
		FromEmail:   req.FromEmail,
		FromName:    req.FromName,
		ReceivedAt:  receivedAt,
		MessageID:   req.MessageID,
		SourceURL:   req.SourceURL,
		BodySnippet: req.BodySnippet,
	})
	if err != nil {
		var failed *extraction.FailedError
		if errors.As(err, &failed) {
			return c.JSON(http.StatusBadGateway, intakeResponse{InboxItemID: failed.InboxItemID})
		}
		return mapStoreError(err)
	}

	if out.Deduped {
		return c.JSON(http.StatusOK, intakeResponse{InboxItemID: out.InboxItemID, Deduped: true, Message: duplicateEmailMessage})
	}
	return c.JSON(http.StatusCreated, intakeResponse{InboxItemID: out.InboxItemID, Deduped: out.Deduped, TaskID: out.TaskID})
}
