package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/service"
)

// RequireRole returns a middleware that lets the request through only when
// the identity stored by JWTAuth has exactly the given role. There is no
// hierarchy: an admin is rejected from author-only routes. Rejections are
// 401 with "Not enough permissions".
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return Unauthorized(c, MsgNotAuthenticated)
			}
			if _, err := service.RequireRole(id, role); err != nil {
				return Unauthorized(c, MsgForbidden)
			}
			return next(c)
		}
	}
}
