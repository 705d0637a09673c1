package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request with method, path, status and
// latency. The Authorization header is never logged.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo's error handler write the response before we read the status
				c.Error(err)
			}
			res := c.Response()
			ev := log.Info()
			switch {
			case res.Status >= 500:
				ev = log.Error().Err(err)
			case res.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("route", c.Path()).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", time.Since(start)).
				Str("ip", c.RealIP()).
				Str("user", currentUser(c)).
				Msg("request")
			return nil
		}
	}
}
