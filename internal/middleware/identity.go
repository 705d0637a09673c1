package middleware

// identity.go holds the helpers that move the authenticated identity
// through the Echo context. JWTAuth stores it; RequireRole, the rate
// limiter and handlers read it back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventdeck/internal/model"
)

const identityKey = "identity"

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by JWTAuth.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok && id.Username != ""
}

// currentUser returns the authenticated username, or "anon" when the
// request carries no identity.
func currentUser(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return id.Username
	}
	return "anon"
}
