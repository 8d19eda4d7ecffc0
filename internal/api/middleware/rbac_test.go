package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeRequireRole(t *testing.T, role string, allowed ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/listings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RequireRole(allowed...)(next)(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	if err := invokeRequireRole(t, "host", "host"); err != nil {
		t.Fatalf("host should pass host-only guard, got %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	err := invokeRequireRole(t, "guest", "host")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for guest on host-only guard, got %v", err)
	}
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	err := invokeRequireRole(t, "", "host")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when role is absent, got %v", err)
	}
}
