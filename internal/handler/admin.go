package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/service"
)

// AdminHandler exposes account administration to admins.
type AdminHandler struct {
	Auth *service.AuthService
	Log  zerolog.Logger
}

func NewAdminHandler(auth *service.AuthService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{Auth: auth, Log: log}
}

type setRoleReq struct {
	Role model.Role `json:"role"`
}

// SetRole assigns a role to the user named in the path. Tokens already
// issued to that user pick up the new role on their next request.
func (h *AdminHandler) SetRole(c echo.Context) error {
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Role = model.Role(strings.ToLower(strings.TrimSpace(string(req.Role))))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Auth.SetRole(ctx, c.Param("username"), req.Role)
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, id)
}
