package api

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/store"
)

// mapStoreError maps the store/services error taxonomy to HTTP
// responses per the §7 status code table. Cross-owner access and a
// genuinely absent row both surface as 404, never 403.
func mapStoreError(err error) error {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	}
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		return echo.NewHTTPError(http.StatusConflict, conflict.Error())
	}
	var validation *store.ValidationError
	if errors.As(err, &validation) {
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	}
	var missingRelation *store.MissingRelationError
	if errors.As(err, &missingRelation) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, missingRelation.Error())
	}

	slog.Error("unhandled service error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// httpErrorHandler renders every error (including echo's own binding
// and routing errors) as {error, detail} JSON.
func httpErrorHandler(err error, c *echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	msg, _ := he.Message.(string)
	if msg == "" {
		msg = http.StatusText(he.Code)
	}

	if jsonErr := c.JSON(he.Code, &errorResponse{Error: msg}); jsonErr != nil {
		slog.Error("failed to write error response", "error", jsonErr)
	}
}
