package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/golf-scorecard/internal/service"
)

// statusFor maps a service error onto an HTTP status and a client-safe
// message.  Store and driver details never reach the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConsistency):
		return http.StatusInternalServerError, "scorecard is in an inconsistent state"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, service.ErrStore):
		return http.StatusServiceUnavailable, "service unavailable, try again"
	default:
		return http.StatusServiceUnavailable, "service unavailable, try again"
	}
}

// writeError logs err with the request context and writes the JSON error body.
func (h *ScorecardHandler) writeError(c echo.Context, op string, err error) error {
	status, msg := statusFor(err)
	entry := h.log.WithError(err).WithField("op", op)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
