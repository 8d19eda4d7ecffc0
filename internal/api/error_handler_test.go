package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/service"
)

func handleError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"listing not found", domain.ErrListingNotFound, http.StatusNotFound},
		{"booking not found", domain.ErrBookingNotFound, http.StatusNotFound},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"capacity exceeded", domain.ErrCapacityExceeded, http.StatusBadRequest},
		{"invalid dates", domain.ErrInvalidDates, http.StatusBadRequest},
		{"dates unavailable", domain.ErrDatesUnavailable, http.StatusConflict},
		{"duplicate submission", domain.ErrDuplicateSubmission, http.StatusConflict},
		{"already cancelled", domain.ErrAlreadyCancelled, http.StatusBadRequest},
		{"cannot cancel", domain.ErrCannotCancel, http.StatusBadRequest},
		{"already reviewed", domain.ErrAlreadyReviewed, http.StatusConflict},
		{"review not allowed", domain.ErrReviewNotAllowed, http.StatusBadRequest},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := handleError(t, tt.err)
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d", code, tt.wantCode)
			}
			if body.Message == "" {
				t.Fatalf("expected a message in the envelope")
			}
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(domain.ErrInvalidTransition, errors.New("from pending to completed"))
	code, _ := handleError(t, wrapped)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for wrapped transition error", code)
	}
}

func TestErrorHandler_ValidationEnumeratesFields(t *testing.T) {
	err := service.NewValidationError("title is required", "max_guests must be at least 1")
	code, body := handleError(t, err)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if body.Message != "validation failed" {
		t.Fatalf("message = %q, want validation failed", body.Message)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("errors = %v, want both failing fields", body.Errors)
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, body := handleError(t, echo.NewHTTPError(http.StatusUnauthorized, "token expired"))
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
	if body.Message != "token expired" {
		t.Fatalf("message = %q, want token expired", body.Message)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	code, body := handleError(t, errors.New("connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if body.Message != "internal server error" {
		t.Fatalf("message = %q, want internal server error", body.Message)
	}
}
