package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/services"
)

// listApplicationsHandler handles GET /applications.
func (s *Server) listApplicationsHandler(c *echo.Context) error {
	apps, err := s.applications.ListApplications(c.Request().Context(), auth.OwnerID(c))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toApplicationDTOs(apps))
}

// createApplicationHandler handles POST /applications.
func (s *Server) createApplicationHandler(c *echo.Context) error {
	var req struct {
		Name         string   `json:"name"`
		Phase        string   `json:"phase"`
		RAG          string   `json:"rag"`
		Stakeholders []string `json:"stakeholders"`
		Keywords     []string `json:"keywords"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	app, err := s.applications.CreateApplication(c.Request().Context(), services.CreateApplicationInput{
		OwnerID:      auth.OwnerID(c),
		Name:         req.Name,
		Phase:        models.ApplicationPhase(req.Phase),
		RAG:          models.RAGStatus(req.RAG),
		Stakeholders: req.Stakeholders,
		Keywords:     req.Keywords,
	})
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, toApplicationDTO(app))
}

// getApplicationHandler handles GET /applications/{id}.
func (s *Server) getApplicationHandler(c *echo.Context) error {
	app, err := s.applications.GetApplication(c.Request().Context(), auth.OwnerID(c), c.Param("id"))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toApplicationDTO(app))
}

// patchApplicationHandler handles PATCH /applications/{id}.
func (s *Server) patchApplicationHandler(c *echo.Context) error {
	fields, err := bindPatchFields(c, applicationPatchConverters)
	if err != nil {
		return err
	}
	app, err := s.applications.PatchApplication(c.Request().Context(), auth.OwnerID(c), c.Param("id"), fields)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toApplicationDTO(app))
}

// reorderApplicationsHandler handles POST /applications/reorder.
func (s *Server) reorderApplicationsHandler(c *echo.Context) error {
	var req reorderApplicationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.applications.Reorder(c.Request().Context(), auth.OwnerID(c), req.OrderedIDs); err != nil {
		return mapStoreError(err)
	}

	apps, err := s.applications.ListApplications(c.Request().Context(), auth.OwnerID(c))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toApplicationDTOs(apps))
}

// copyUpdateHandler handles POST /implementations/{id}/copy-update.
func (s *Server) copyUpdateHandler(c *echo.Context) error {
	var req copyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	saveToLog := req.SaveToLog == nil || *req.SaveToLog

	update, err := s.applications.CopyUpdate(c.Request().Context(), auth.OwnerID(c), c.Param("id"), saveToLog)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toStatusUpdateDTO(update))
}
