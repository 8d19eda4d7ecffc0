package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
// Errors carries per-field messages on validation failures.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Renders validation failures with every failing field enumerated.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if ve, ok := service.IsValidationError(err); ok {
			_ = c.JSON(http.StatusBadRequest, errorResponse{
				Message: "validation failed",
				Errors:  ve.Fields,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "invalid identifier"
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, domain.ErrListingNotAvailable):
		return http.StatusNotFound, "listing not available"
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, "booking not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidDates):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDatesUnavailable):
		return http.StatusConflict, "requested dates are not available"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrCannotCancel):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrReviewNotAllowed):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
