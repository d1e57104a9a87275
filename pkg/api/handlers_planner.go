package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/planner"
)

type scoredTaskDTO struct {
	Task             taskDTO `json:"task"`
	FinalScore       float64 `json:"final_score"`
	SuggestedMinutes int     `json:"suggested_minutes"`
	Mode             string  `json:"mode"`
	MatchesDirective bool    `json:"matches_directive"`
	ReasonsJSON      any     `json:"reasons_json"`
}

type exceptionDTO struct {
	Task   taskDTO `json:"task"`
	Reason string  `json:"reason"`
}

type planResponse struct {
	PlanDate   string         `json:"plan_date"`
	NowNext    *scoredTaskDTO `json:"now_next"`
	Next3      []scoredTaskDTO `json:"next_3"`
	Queue      []scoredTaskDTO `json:"queue"`
	Exceptions []exceptionDTO `json:"exceptions"`
}

func toScoredTaskDTO(st planner.ScoredTask) scoredTaskDTO {
	return scoredTaskDTO{
		Task:             toTaskDTO(st.Task),
		FinalScore:       st.Result.FinalScore,
		SuggestedMinutes: st.SuggestedMinutes,
		Mode:             st.Mode,
		MatchesDirective: st.MatchesDirective,
		ReasonsJSON:      st.Result,
	}
}

func toScoredTaskDTOs(tasks []planner.ScoredTask) []scoredTaskDTO {
	out := make([]scoredTaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = toScoredTaskDTO(t)
	}
	return out
}

func toExceptionDTOs(exceptions []planner.Exception) []exceptionDTO {
	out := make([]exceptionDTO, len(exceptions))
	for i, e := range exceptions {
		out[i] = exceptionDTO{Task: toTaskDTO(e.Task), Reason: e.Reason}
	}
	return out
}

// planHandler handles POST/GET /planner/plan.
func (s *Server) planHandler(c *echo.Context) error {
	planDate := c.QueryParam("plan_date")
	if c.Request().Method == http.MethodPost {
		var req planRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if req.PlanDate != "" {
			planDate = req.PlanDate
		}
	}

	out, err := s.planner.Plan(c.Request().Context(), auth.OwnerID(c), planDate)
	if err != nil {
		return mapStoreError(err)
	}

	resp := planResponse{
		PlanDate:   out.PlanDate,
		Next3:      toScoredTaskDTOs(out.Next3),
		Queue:      toScoredTaskDTOs(out.Queue),
		Exceptions: toExceptionDTOs(out.Exceptions),
	}
	if out.NowNext != nil {
		dto := toScoredTaskDTO(*out.NowNext)
		resp.NowNext = &dto
	}
	return c.JSON(http.StatusOK, resp)
}
