// Package api provides the HTTP surface for mission control.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/briefing"
	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/extraction"
	"github.com/bvquist1400/mission-control/pkg/planner"
	"github.com/bvquist1400/mission-control/pkg/services"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	cfg        *config.Config
	gate       *auth.Gate
	db         *store.Store

	tasks        *services.TaskService
	applications *services.ApplicationService
	focus        *services.FocusService
	calendar     *services.CalendarService
	planner      *planner.Planner
	briefing     *briefing.Composer
	extraction   *extraction.Pipeline
}

// NewServer wires every service behind its route group and registers
// the full §6 HTTP surface.
func NewServer(
	cfg *config.Config,
	gate *auth.Gate,
	db *store.Store,
	tasks *services.TaskService,
	applications *services.ApplicationService,
	focus *services.FocusService,
	calendar *services.CalendarService,
	plannerSvc *planner.Planner,
	briefingSvc *briefing.Composer,
	extractionSvc *extraction.Pipeline,
) *Server {
	e := echo.New()
	e.HTTPErrorHandler = httpErrorHandler

	s := &Server{
		echo:         e,
		cfg:          cfg,
		gate:         gate,
		db:           db,
		tasks:        tasks,
		applications: applications,
		focus:        focus,
		calendar:     calendar,
		planner:      plannerSvc,
		briefing:     briefingSvc,
		extraction:   extractionSvc,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all API routes. Static paths are registered
// before parameterized ones in every group to avoid routing ambiguity.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(2 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)

	v1 := s.echo.Group("/api/v1", s.gate.Middleware())

	v1.GET("/tasks", s.listTasksHandler)
	v1.POST("/tasks", s.createTaskHandler)
	v1.GET("/tasks/:id", s.getTaskHandler)
	v1.PATCH("/tasks/:id", s.patchTaskHandler)
	v1.DELETE("/tasks/:id", s.deleteTaskHandler)
	v1.POST("/tasks/:id/dependencies", s.createDependencyHandler)
	v1.GET("/tasks/:id/dependencies", s.listDependenciesHandler)
	v1.DELETE("/tasks/:id/dependencies/:dep_id", s.deleteDependencyHandler)

	v1.POST("/applications/reorder", s.reorderApplicationsHandler)
	v1.GET("/applications", s.listApplicationsHandler)
	v1.POST("/applications", s.createApplicationHandler)
	v1.GET("/applications/:id", s.getApplicationHandler)
	v1.PATCH("/applications/:id", s.patchApplicationHandler)
	v1.POST("/implementations/:id/copy-update", s.copyUpdateHandler)

	v1.GET("/focus", s.listFocusHandler)
	v1.POST("/focus", s.createFocusHandler)
	v1.PATCH("/focus/:id", s.patchFocusHandler)
	v1.POST("/focus/clear", s.clearFocusHandler)

	v1.POST("/planner/plan", s.planHandler)
	v1.GET("/planner/plan", s.planHandler)

	v1.GET("/calendar", s.getCalendarHandler)
	v1.PATCH("/calendar", s.patchCalendarHandler)

	v1.POST("/intake/email", s.intakeEmailHandler)

	v1.GET("/briefing", s.getBriefingHandler)
	v1.POST("/briefing/narrative", s.briefingNarrativeHandler)
}

// healthHandler handles GET /health. It requires no admission, since
// an operator's uptime probe shouldn't need to carry the API key.
func (s *Server) healthHandler(c *echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}

// Start starts the HTTP server on addr and blocks until the server
// stops; run it in a goroutine to keep the caller free.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener,
// used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
