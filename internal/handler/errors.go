package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/middleware"
	"github.com/iliyamo/eventdeck/internal/repository"
	"github.com/iliyamo/eventdeck/internal/service"
)

// respond translates a service or repository error into a status code.
// Unknown errors are logged and answered with a generic 500 so store
// details never reach the client.
func respond(c echo.Context, log zerolog.Logger, err error) error {
	if msg, ok := middleware.AuthErrorMessage(err); ok {
		return middleware.Unauthorized(c, msg)
	}
	switch {
	case errors.Is(err, service.ErrInvalidEvent), errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	}
	log.Error().Err(err).Str("method", c.Request().Method).Str("route", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
