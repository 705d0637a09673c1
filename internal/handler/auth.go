package handler

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/middleware"
	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
	Log  zerolog.Logger
}

func NewAuthHandler(auth *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log}
}

// ----- DTOs -----

// signupReq has no role field; anything the client sends there is dropped.
type signupReq struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Bio      *model.Answers `json:"bio"`
}

// loginReq accepts the OAuth2 password form as well as JSON.
type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const maxUsernameLen = 64

// Signup creates a plain user account and returns its identity.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password required"})
	}
	if len(req.Username) > maxUsernameLen || strings.ContainsAny(req.Username, " \t\r\n") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid username"})
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Auth.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, id)
}

// Login verifies username and password and returns a bearer token. Every
// credential failure gets the same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tok, err := h.Auth.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: tok.Token, TokenType: "Bearer"})
}

// Me returns the caller's identity as loaded by JWTAuth.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return middleware.Unauthorized(c, middleware.MsgNotAuthenticated)
	}
	return c.JSON(http.StatusOK, id)
}
