package middleware

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// KeyFunc derives the cache key of a request. An empty key skips caching.
type KeyFunc func(c echo.Context) string

// EventCacheKey is the key a single event response is stored under.
// Writers use it to invalidate after update or delete.
func EventCacheKey(prefix string, id int64) string {
	return prefix + ":event:" + strconv.FormatInt(id, 10)
}

// EventKey keys requests by their :id route parameter. Responses do not
// depend on the caller, so all identities share one entry per event.
func EventKey(prefix string) KeyFunc {
	return func(c echo.Context) string {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return ""
		}
		return EventCacheKey(prefix, id)
	}
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// NewRedisCache stores status, headers and body of 200 responses so a hit
// replays exactly what the handler wrote. It must run after JWTAuth so
// anonymous callers never reach a cached body.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, key KeyFunc, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			k := key(c)
			if k == "" {
				return next(c)
			}
			ctx := c.Request().Context()

			if bs, err := rdb.Get(ctx, k).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for name, vals := range hdr {
						if strings.EqualFold(name, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(name, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			} else if err != redis.Nil {
				log.Warn().Err(err).Str("key", k).Msg("cache: redis get failed")
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), k, payload, ttl).Err(); err != nil {
				log.Warn().Err(err).Str("key", k).Msg("cache: redis set failed")
			}
			return nil
		}
	}
}

// CacheInvalidator drops cached responses after writes.
type CacheInvalidator struct {
	rdb    *redis.Client
	prefix string
}

// NewCacheInvalidator returns nil when rdb is nil; a nil invalidator is a no-op.
func NewCacheInvalidator(rdb *redis.Client, prefix string) *CacheInvalidator {
	if rdb == nil {
		return nil
	}
	return &CacheInvalidator{rdb: rdb, prefix: prefix}
}

// InvalidateEvent removes the cached response of event id.
func (ci *CacheInvalidator) InvalidateEvent(ctx context.Context, id int64) error {
	if ci == nil {
		return nil
	}
	return ci.rdb.Del(ctx, EventCacheKey(ci.prefix, id)).Err()
}
