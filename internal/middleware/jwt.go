package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/model"
)

// TokenResolver turns a raw bearer token into the identity it names.
// *service.AuthService satisfies it.
type TokenResolver interface {
	ResolveToken(ctx context.Context, raw string) (model.Identity, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// loads the caller's identity and stores it on the context (see
// IdentityFrom). Expired and invalid tokens get distinct 401 messages;
// store failures are 500s.
func JWTAuth(resolver TokenResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return Unauthorized(c, MsgNotAuthenticated)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			id, err := resolver.ResolveToken(ctx, raw)
			if err != nil {
				if msg, ok := AuthErrorMessage(err); ok {
					return Unauthorized(c, msg)
				}
				log.Error().Err(err).Str("path", c.Path()).Msg("resolve token")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
