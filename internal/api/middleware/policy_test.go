package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/finansys/finansys-api/internal/core/domain"
)

func policyContext(t *testing.T, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(CtxIdentity, user)
		c.Set(CtxRole, string(user.Role))
	}
	return c, rec
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	c, rec := policyContext(t, nil)

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_Authenticated(t *testing.T) {
	c, rec := policyContext(t, domain.NewUser("Alice", "alice@example.com", "hash"))

	called := false
	handler := RequireAuth()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("authenticated request rejected: called=%t code=%d", called, rec.Code)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	c, rec := policyContext(t, nil)

	handler := RequireRole(string(domain.RoleAdmin))(func(c echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	c, rec := policyContext(t, domain.NewUser("Alice", "alice@example.com", "hash"))

	handler := RequireRole(string(domain.RoleAdmin))(func(c echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_AllowedRole(t *testing.T) {
	admin := domain.NewUser("Root", "root@example.com", "hash")
	admin.Role = domain.RoleAdmin
	c, rec := policyContext(t, admin)

	called := false
	handler := RequireRole(string(domain.RoleAdmin), string(domain.RoleUser))(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("allowed role rejected: called=%t code=%d", called, rec.Code)
	}
}
