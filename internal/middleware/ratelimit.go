package middleware

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/config"
)

// bucketScript refills the bucket in whole intervals, then spends one token
// if there is one.  ARGV: capacity, refill tokens, interval ms, now ms,
// ttl ms.  Returns {allowed, remaining, wait ms}.
var bucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local every = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp'))
if tokens == nil or stamp == nil then
	tokens = capacity
	stamp = now
end

local ticks = math.floor(math.max(0, now - stamp) / every)
if ticks > 0 then
	tokens = math.min(capacity, tokens + ticks * refill)
	stamp = stamp + ticks * every
end

local allowed = 0
local wait = 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
else
	wait = every - (now - stamp)
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, wait}
`)

var errBucketReply = errors.New("ratelimit: unexpected script reply")

type tokenBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
	log zerolog.Logger
	now func() time.Time
}

// NewTokenBucket limits each caller, keyed by client IP, user and route, with
// a token bucket kept in Redis.  A blocked request gets 429
// TooManyRequestsError and a Retry-After header.  Without Redis, or when
// Redis fails, requests go through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	b := &tokenBucket{cfg: cfg.Normalize(), rdb: rdb, log: log, now: time.Now}
	return b.middleware
}

func (b *tokenBucket) key(c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return b.cfg.Prefix + ":" + ip + ":" + userID(c) + ":" + c.Request().Method + " " + c.Path()
}

func (b *tokenBucket) take(c echo.Context) (allowed bool, remaining int64, wait time.Duration, err error) {
	res, err := bucketScript.Run(c.Request().Context(), b.rdb, []string{b.key(c)},
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		b.now().UnixMilli(),
		b.cfg.TTL.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, err
	}
	if len(res) != 3 {
		return false, 0, 0, errBucketReply
	}
	return res[0] == 1, res[1], time.Duration(res[2]) * time.Millisecond, nil
}

func (b *tokenBucket) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		allowed, remaining, wait, err := b.take(c)
		if err != nil {
			b.log.Warn().Err(err).Str("path", c.Path()).Msg("ratelimit: redis error")
			return next(c)
		}

		h := c.Response().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(b.cfg.Capacity))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if allowed {
			return next(c)
		}

		h.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		b.log.Debug().Str("user_id", userID(c)).Dur("wait", wait).Msg("ratelimit: blocked")
		return writeError(c, access.New(access.KindTooManyRequests, ""))
	}
}
