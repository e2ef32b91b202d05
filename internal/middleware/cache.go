package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/config"
)

const cacheStatusHeader = "X-Cache"

// ResponseCache keeps successful GET responses in Redis, one entry per user
// and URL.  Every entry key carries the document generation, a counter that
// Writes bumps after each successful create, update or delete, so a read
// cached before a write is never served after it.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
	log zerolog.Logger
}

// NewResponseCache returns a cache backed by rdb.  With caching disabled or
// rdb nil both middlewares pass requests straight through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log zerolog.Logger) *ResponseCache {
	return &ResponseCache{cfg: cfg, rdb: rdb, log: log}
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

func (rc *ResponseCache) enabled() bool {
	return rc.cfg.Enabled && rc.rdb != nil
}

func (rc *ResponseCache) generationKey() string {
	return rc.cfg.Prefix + ":generation"
}

// Generation returns the current document generation; zero before the
// first write.
func (rc *ResponseCache) Generation(ctx context.Context) (int64, error) {
	n, err := rc.rdb.Get(ctx, rc.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Invalidate moves to the next generation, orphaning every cached entry.
func (rc *ResponseCache) Invalidate(ctx context.Context) error {
	return rc.rdb.Incr(ctx, rc.generationKey()).Err()
}

func (rc *ResponseCache) entryKey(gen int64, c echo.Context) string {
	u := c.Request().URL
	sum := sha1.Sum([]byte(u.Path + "?" + u.RawQuery))
	return fmt.Sprintf("%s:g%d:u%s:%x", rc.cfg.Prefix, gen, userID(c), sum)
}

// Reads serves authenticated GETs from the cache and stores 200 responses
// on a miss.  Redis failures fall back to the handler.
func (rc *ResponseCache) Reads() echo.MiddlewareFunc {
	if !rc.enabled() {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			if _, ok := PrincipalFrom(c); !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			gen, err := rc.Generation(ctx)
			if err != nil {
				rc.log.Warn().Err(err).Msg("cache: read generation")
				return next(c)
			}
			key := rc.entryKey(gen, c)

			if hit, ok := rc.lookup(ctx, key); ok {
				c.Response().Header().Set(cacheStatusHeader, "HIT")
				return c.Blob(hit.Status, hit.ContentType, hit.Body)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, limit: rc.cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set(cacheStatusHeader, "MISS")
			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status != http.StatusOK || rec.overflow {
				return nil
			}
			rc.store(key, cachedResponse{
				Status:      http.StatusOK,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
			})
			return nil
		}
	}
}

// Writes bumps the document generation after every 2xx response.
func (rc *ResponseCache) Writes() echo.MiddlewareFunc {
	if !rc.enabled() {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if status := c.Response().Status; err != nil || status < 200 || status >= 300 {
				return err
			}
			if ierr := rc.Invalidate(context.Background()); ierr != nil {
				rc.log.Error().Err(ierr).Msg("cache: bump generation")
			}
			return nil
		}
	}
}

func (rc *ResponseCache) lookup(ctx context.Context, key string) (cachedResponse, bool) {
	var hit cachedResponse
	bs, err := rc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			rc.log.Warn().Err(err).Msg("cache: get")
		}
		return hit, false
	}
	if err := json.Unmarshal(bs, &hit); err != nil || hit.Status == 0 {
		return hit, false
	}
	return hit, true
}

func (rc *ResponseCache) store(key string, entry cachedResponse) {
	bs, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := rc.rdb.Set(context.Background(), key, bs, rc.cfg.TTL).Err(); err != nil {
		rc.log.Warn().Err(err).Msg("cache: set")
	}
}

// bodyRecorder copies what the handler writes, up to limit bytes.  Past the
// limit it drops the copy and marks the response as uncacheable.
type bodyRecorder struct {
	http.ResponseWriter
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}
