package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/calendar"
)

type calendarRangeResponse struct {
	Events      []calendarEventDTO `json:"events"`
	Days        []calendar.DayStats `json:"days"`
	ChangesSince calendar.Delta     `json:"changes_since"`
}

// getCalendarHandler handles GET /calendar?rangeStart&rangeEnd.
func (s *Server) getCalendarHandler(c *echo.Context) error {
	rangeStart := c.QueryParam("rangeStart")
	rangeEnd := c.QueryParam("rangeEnd")

	result, err := s.calendar.GetRange(c.Request().Context(), auth.OwnerID(c), rangeStart, rangeEnd, time.Now().UTC())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(http.StatusOK, calendarRangeResponse{
		Events:       toCalendarEventDTOs(result.Events),
		Days:         result.Days,
		ChangesSince: result.Changes,
	})
}

// patchCalendarHandler handles PATCH /calendar, writing a per-event
// meeting_context.
func (s *Server) patchCalendarHandler(c *echo.Context) error {
	var req patchCalendarEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.EventID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id is required")
	}

	if err := s.calendar.PatchMeetingContext(c.Request().Context(), auth.OwnerID(c), req.EventID, req.MeetingContext); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
