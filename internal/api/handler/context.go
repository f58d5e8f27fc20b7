package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/finansys/finansys-api/internal/api/middleware"
	"github.com/finansys/finansys-api/internal/core/domain"
)

// ctxIdentity extracts the identity bound by the auth middleware. The second
// return value is false when the request is unauthenticated; handlers behind
// RequireAuth can rely on it being true.
func ctxIdentity(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(middleware.CtxIdentity).(*domain.User)
	return user, ok
}

// ctxActor returns the acting user's email for audit attribution, or "" when
// the request is unauthenticated.
func ctxActor(c echo.Context) string {
	email, _ := c.Get(middleware.CtxEmail).(string)
	return email
}
