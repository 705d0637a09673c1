package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventdeck/internal/config"
)

func rlConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestTokenBucket_BlocksAfterCapacity(t *testing.T) {
	_, rdb := newRedis(t)
	e := echo.New()
	e.POST("/login", ok, NewTokenBucket(rlConfig(2), rdb, zerolog.Nop()))

	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodPost, "/login", "")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
	rec := do(e, http.MethodPost, "/login", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestTokenBucket_KeysPerRoute(t *testing.T) {
	_, rdb := newRedis(t)
	e := echo.New()
	mw := NewTokenBucket(rlConfig(1), rdb, zerolog.Nop())
	e.POST("/login", ok, mw)
	e.POST("/signup", ok, mw)

	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/login", "").Code)
	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/signup", "").Code)
	require.Equal(t, http.StatusTooManyRequests, do(e, http.MethodPost, "/login", "").Code)
}

func TestTokenBucket_FailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	e := echo.New()
	e.POST("/login", ok, NewTokenBucket(rlConfig(1), rdb, zerolog.Nop()))
	mr.Close()

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/login", "").Code)
	}
}

func TestTokenBucket_Disabled(t *testing.T) {
	e := echo.New()
	e.POST("/login", ok, NewTokenBucket(rlConfig(1), nil, zerolog.Nop()))

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/login", "").Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/login")

	cfg := rlConfig(1)
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
}
