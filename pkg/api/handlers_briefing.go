package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/briefing"
)

type narrativeResponse struct {
	Mode      string               `json:"mode"`
	Narrative string               `json:"narrative"`
	LLM       *briefing.NarrativeMeta `json:"llm"`
}

// getBriefingHandler handles GET /briefing?date&mode. It is not named
// in the original HTTP table — it is the server-side entry point for
// the aggregation POST /briefing/narrative otherwise has no way to
// obtain, since the table lists only the narration step.
func (s *Server) getBriefingHandler(c *echo.Context) error {
	date := c.QueryParam("date")
	mode := briefing.Mode(c.QueryParam("mode"))
	if mode == "" {
		mode = briefing.ModeAuto
	}

	b, err := s.briefing.Aggregate(c.Request().Context(), auth.OwnerID(c), date, mode, time.Now().UTC())
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, b)
}

// briefingNarrativeHandler handles POST /briefing/narrative.
func (s *Server) briefingNarrativeHandler(c *echo.Context) error {
	var req briefingNarrativeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Briefing.RequestedDate == "" || req.Briefing.Mode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "briefing.requestedDate and briefing.mode are required")
	}

	result, err := s.briefing.GenerateNarrative(c.Request().Context(), auth.OwnerID(c), &req.Briefing, time.Now().UTC())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(http.StatusOK, narrativeResponse{
		Mode:      string(result.Mode),
		Narrative: result.Narrative,
		LLM:       result.LLM,
	})
}
