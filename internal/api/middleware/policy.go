package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type policyError struct {
	Message   string    `json:"message"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

func reject(c echo.Context, status int, message string) error {
	return c.JSON(status, policyError{Message: message, Success: false, Timestamp: time.Now().UTC()})
}

// RequireAuth rejects requests that reached a protected route without an
// identity bound by Auth.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get(CtxIdentity) == nil {
				return reject(c, http.StatusUnauthorized, "not authenticated")
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access on top of RequireAuth semantics:
// unauthenticated requests get 401, authenticated ones outside the allowed
// roles get 403.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get(CtxIdentity) == nil {
				return reject(c, http.StatusUnauthorized, "not authenticated")
			}
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return reject(c, http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
