package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/services"
)

// listFocusHandler handles GET /focus. ?history=true includes inactive
// directives; otherwise only the currently active one (if any) is
// returned.
func (s *Server) listFocusHandler(c *echo.Context) error {
	includeHistory := c.QueryParam("history") == "true"
	directives, err := s.focus.ListDirectives(c.Request().Context(), auth.OwnerID(c), includeHistory)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toFocusDirectiveDTOs(directives))
}

// createFocusHandler handles POST /focus.
func (s *Server) createFocusHandler(c *echo.Context) error {
	var req createFocusDirectiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	directive, err := s.focus.CreateDirective(c.Request().Context(), services.CreateFocusDirectiveInput{
		OwnerID:    auth.OwnerID(c),
		Text:       req.Text,
		ScopeType:  models.DirectiveScopeType(req.ScopeType),
		ScopeID:    req.ScopeID,
		ScopeValue: req.ScopeValue,
		Strength:   models.DirectiveStrength(req.Strength),
		IsActive:   req.IsActive,
	})
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, toFocusDirectiveDTO(directive))
}

// patchFocusHandler handles PATCH /focus/{id}.
func (s *Server) patchFocusHandler(c *echo.Context) error {
	fields, err := bindPatchFields(c, focusDirectivePatchConverters)
	if err != nil {
		return err
	}
	directive, err := s.focus.PatchDirective(c.Request().Context(), auth.OwnerID(c), c.Param("id"), fields)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toFocusDirectiveDTO(directive))
}

// clearFocusHandler handles POST /focus/clear.
func (s *Server) clearFocusHandler(c *echo.Context) error {
	if err := s.focus.Clear(c.Request().Context(), auth.OwnerID(c)); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
