package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projectnexus/nexus-backend/internal/model"
)

// UserLister is the read-only view of the user repository the admin
// endpoints need.
type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// AdminHandler serves endpoints restricted to the admin role.
type AdminHandler struct {
	Users UserLister
}

func NewAdminHandler(u UserLister) *AdminHandler { return &AdminHandler{Users: u} }

// ListUsers returns every user record, sanitized by the model's own JSON
// rules (the password hash is never serialized).
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}
