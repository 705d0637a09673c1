package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

// countingEchoWith serves GET /v1/events/:id through the redis cache and
// counts how often the handler actually runs.
func countingEchoWith(cfg config.CacheConfig, rdb *redis.Client, status int) (*echo.Echo, *int) {
	calls := 0
	e := echo.New()
	e.GET("/v1/events/:id", func(c echo.Context) error {
		calls++
		return c.JSON(status, echo.Map{"id": c.Param("id"), "n": calls})
	}, NewRedisCache(cfg, rdb, EventKey(cfg.Prefix), zerolog.Nop()))
	return e, &calls
}
