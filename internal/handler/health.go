package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	DB    Pinger
	Redis *redis.Client // optional; caching and rate limiting degrade without it
}

// Live is a simple health‑check endpoint used by load balancers to verify
// that the process is serving. It returns a plain text "ok".
func (h *HealthHandler) Live(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports 503 when the database is unreachable. Redis is reported
// but never fails the probe.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := echo.Map{"db": "up", "redis": "disabled"}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["db"] = "down"
		}
	}
	if h.Redis != nil {
		body["redis"] = "up"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			body["redis"] = "down"
		}
	}
	return c.JSON(status, body)
}
