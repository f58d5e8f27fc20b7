package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finansys/finansys-api/internal/api/middleware"
	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

// AuthHandler exposes login, registration, identity and logout endpoints.
type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditTrail
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditTrail) *AuthHandler {
	if audit == nil {
		audit = ports.NopAuditTrail{}
	}
	return &AuthHandler{authService: authService, audit: audit}
}

// Login authenticates a user and sets the session-token cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid payload", false))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message(err.Error(), false))
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, message("invalid credentials", false))
		}
		return err
	}

	c.SetCookie(sessionCookie(result.Token, int(time.Until(result.ExpiresAt).Seconds())))

	return c.JSON(http.StatusOK, jwtResponse{
		Token:     result.Token,
		Type:      result.TokenType,
		ID:        result.ID,
		Name:      result.Name,
		Email:     result.Email,
		Role:      string(result.Role),
		ExpiresAt: result.ExpiresAt,
	})
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid payload", false))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message(err.Error(), false))
	}

	result, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	if !result.Success {
		return c.JSON(http.StatusBadRequest, message(result.Message, false))
	}
	return c.JSON(http.StatusCreated, message(result.Message, true))
}

// CheckEmail reports whether an email is available for registration.
//
// @Summary      Check email availability
// @Tags         auth
// @Produce      json
// @Param        email  path      string  true  "Email to check"
// @Success      200    {object}  messageResponse
// @Router       /auth/check-email/{email} [get]
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	available, err := h.authService.CheckEmailAvailability(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}

	text := "email available"
	if !available {
		text = "email already in use"
	}
	return c.JSON(http.StatusOK, message(text, available))
}

// Me returns the authenticated user's identity.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := ctxIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, message("not authenticated", false))
	}

	return c.JSON(http.StatusOK, identityResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Enabled:   user.Enabled,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	})
}

// Logout expires the session-token cookie. It succeeds whether or not the
// caller was authenticated; the server holds no session state to discard.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	expired := sessionCookie("", -1)
	expired.Expires = time.Unix(0, 0)
	c.SetCookie(expired)

	// Actor is empty when the caller was not authenticated.
	h.audit.Record(domain.AuditEvent{
		Actor:     ctxActor(c),
		Action:    domain.AuditLogout,
		Timestamp: time.Now().UTC(),
	})

	return c.JSON(http.StatusOK, message("logout successful", true))
}

// sessionCookie builds the session-token cookie. HTTP-only and Secure with
// SameSite=None so a browser frontend on another origin can send it, and the
// token stays out of reach of page scripts.
func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
