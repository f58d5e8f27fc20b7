package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/api/metrics"
	"github.com/finansys/finansys-api/internal/core/ports"
	"github.com/finansys/finansys-api/internal/core/token"
)

// TokenCookie is the cookie carrying the session token. The token travels in
// an HTTP-only cookie rather than an Authorization header so page scripts
// cannot read it.
const TokenCookie = "token"

// Context keys set by Auth on successful identity binding.
const (
	CtxIdentity = "identity"
	CtxRole     = "role"
	CtxEmail    = "email"
	CtxUserID   = "user_id"
)

// Auth authenticates each request from the session-token cookie and binds
// the resolved identity to the request context. It never rejects: every
// failure degrades to "proceed unauthenticated" and route-level policy
// (RequireAuth / RequireRole) makes the accept/reject decision. Requests to
// a configured public prefix skip the check entirely.
//
// Per request this performs at most one token verification and one
// credential-store lookup.
func Auth(codec *token.Codec, users ports.UserRepository, publicPrefixes []string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isPublic(c.Request().URL.Path, publicPrefixes) {
				return next(c)
			}

			cookie, err := c.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := codec.Verify(cookie.Value)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("session token rejected")
				return next(c)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			subject, _ := claims["sub"].(string)
			if subject == "" {
				return next(c)
			}

			user, err := users.FindByEmail(c.Request().Context(), subject)
			if err != nil {
				log.Debug().Err(err).Str("subject", subject).Msg("token subject not resolvable")
				return next(c)
			}

			// The subject must still match the stored identity and the
			// account must still be usable; a stale or disabled account is
			// left unauthenticated even with a valid token.
			if user.Email != subject || !user.CanAuthenticate() {
				log.Debug().Str("subject", subject).Msg("identity not bindable")
				return next(c)
			}

			c.Set(CtxIdentity, user)
			c.Set(CtxRole, string(user.Role))
			c.Set(CtxEmail, user.Email)
			c.Set(CtxUserID, user.ID)

			return next(c)
		}
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func verifyResult(err error) string {
	if errors.Is(err, token.ErrExpired) {
		return "expired"
	}
	return "invalid"
}
