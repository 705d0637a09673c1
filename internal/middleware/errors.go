package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventdeck/internal/service"
	"github.com/iliyamo/eventdeck/internal/utils"
)

// Client-facing messages for authentication and authorization failures.
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidCredentials = "incorrect username or password"
	MsgExpiredToken       = "Expired token"
	MsgInvalidToken       = "Could not validate credentials"
	MsgForbidden          = "Not enough permissions"
)

// AuthErrorMessage maps the auth sentinels to their client message. It
// reports false for any other error.
func AuthErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials, true
	case errors.Is(err, utils.ErrExpiredToken):
		return MsgExpiredToken, true
	case errors.Is(err, utils.ErrInvalidToken):
		return MsgInvalidToken, true
	case errors.Is(err, service.ErrForbidden):
		return MsgForbidden, true
	}
	return "", false
}

// Unauthorized writes a 401 with a Bearer challenge. Forbidden roles use
// it too, so clients only ever see 401 from the auth layer.
func Unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}
