package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventdeck/internal/handler"
	"github.com/iliyamo/eventdeck/internal/middleware"
	"github.com/iliyamo/eventdeck/internal/model"
)

// RegisterRoutes registers the probes, which need no authentication.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Live)
	e.GET("/readyz", h.Ready)
}

// RegisterAuth registers signup, login and the identity endpoint. The
// credential endpoints sit behind limiter; /users/me/ behind auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth, limiter echo.MiddlewareFunc) {
	e.POST("/signup", a.Signup, limiter)
	e.POST("/register", a.Signup, limiter)
	e.POST("/login", a.Login, limiter)

	e.GET("/users/me/", a.Me, auth)
	e.GET("/users/me", a.Me, auth)
}

// RegisterEvents registers the event routes under /v1/events. Every route
// needs a valid token; writes additionally need an exact role:
//
//	POST   /v1/events           author
//	GET    /v1/events/:id       any role (cached)
//	PUT    /v1/events/:id       author (and owner, checked by the service)
//	DELETE /v1/events/:id       admin
//	POST   /v1/events/:id/like  user
//	DELETE /v1/events/:id/like  user
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, auth, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/events", auth)
	g.POST("", h.Create, middleware.RequireRole(model.RoleAuthor))
	g.GET("/:id", h.Get, cache)
	g.PUT("/:id", h.Update, middleware.RequireRole(model.RoleAuthor))
	g.DELETE("/:id", h.Delete, middleware.RequireRole(model.RoleAdmin))
	g.POST("/:id/like", h.Like, middleware.RequireRole(model.RoleUser))
	g.DELETE("/:id/like", h.Unlike, middleware.RequireRole(model.RoleUser))
}

// RegisterAdmin registers account administration, admin role only.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1/admin", auth, middleware.RequireRole(model.RoleAdmin))
	g.PUT("/users/:username/role", h.SetRole)
}
