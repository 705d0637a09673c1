package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/eventdeck/internal/repository"
	"github.com/iliyamo/eventdeck/internal/service"
	"github.com/iliyamo/eventdeck/internal/utils"
)

func TestRespond(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
		body   string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "incorrect username or password"},
		{utils.ErrExpiredToken, http.StatusUnauthorized, "Expired token"},
		{utils.ErrInvalidToken, http.StatusUnauthorized, "Could not validate credentials"},
		{service.ErrForbidden, http.StatusUnauthorized, "Not enough permissions"},
		{fmt.Errorf("%w: title is required", service.ErrInvalidEvent), http.StatusBadRequest, "title is required"},
		{service.ErrInvalidRole, http.StatusBadRequest, "invalid role"},
		{service.ErrPasswordTooLong, http.StatusBadRequest, "password too long"},
		{repository.ErrEventNotFound, http.StatusNotFound, "event not found"},
		{repository.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{repository.ErrUsernameExists, http.StatusConflict, "username already exists"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal error"},
	} {
		var logs bytes.Buffer
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		_ = respond(c, zerolog.New(&logs), tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Contains(t, rec.Body.String(), tc.body)
		if tc.status == http.StatusInternalServerError {
			assert.NotContains(t, rec.Body.String(), "connection refused")
			assert.Contains(t, logs.String(), "connection refused")
		}
		if tc.status == http.StatusUnauthorized {
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		}
	}
}
