package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finansys/finansys-api/internal/core/ports"
)

// AdminHandler exposes account administration endpoints. Routes using it
// must sit behind RequireRole(ADMIN).
type AdminHandler struct {
	users ports.UserRepository
}

func NewAdminHandler(users ports.UserRepository) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers handles GET /admin/users.
//
// @Summary      List all accounts
// @Tags         admin
// @Produce      json
// @Success      200  {array}   identityResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]identityResponse, 0, len(users))
	for _, u := range users {
		out = append(out, identityResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			Enabled:   u.Enabled,
			CreatedAt: u.CreatedAt,
			LastLogin: u.LastLogin,
		})
	}
	return c.JSON(http.StatusOK, out)
}
