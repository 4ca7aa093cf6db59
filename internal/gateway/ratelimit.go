package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// tokenBucket refills KEYS[1] at ARGV[1] tokens/s up to ARGV[2] tokens and
// takes one token if available. ARGV[3] is the current time in milliseconds.
// Returns 1 when the request is allowed.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(bucket[1])
local ts = tonumber(bucket[2])
if tokens == nil then
  tokens = capacity
  ts = now
end

local elapsed = math.max(0, now - ts)
tokens = math.min(capacity, tokens + elapsed * rate / 1000)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HSET", key, "tokens", tostring(tokens), "ts", now)
redis.call("EXPIRE", key, math.ceil(capacity / rate) + 1)
return allowed
`)

// ScriptRunner evaluates a Lua script against Redis
type ScriptRunner interface {
	RunScript(ctx context.Context, script *redis.Script, keys []string, args ...interface{}) (interface{}, error)
}

// RateLimiter is a per-client token bucket kept in Redis
type RateLimiter struct {
	runner   ScriptRunner
	capacity int
	refill   int
	logger   *zap.Logger
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing bursts of capacity requests,
// refilled at refill requests per second. Returns nil when runner is nil or
// limiting is switched off.
func NewRateLimiter(runner ScriptRunner, capacity, refill int, logger *zap.Logger) *RateLimiter {
	if runner == nil || capacity <= 0 || refill <= 0 {
		return nil
	}
	return &RateLimiter{
		runner:   runner,
		capacity: capacity,
		refill:   refill,
		logger:   logger,
		now:      time.Now,
	}
}

// Allow takes one token from client's bucket. Redis failures let the request through.
func (l *RateLimiter) Allow(ctx context.Context, client string) bool {
	if l == nil {
		return true
	}

	res, err := l.runner.RunScript(ctx, tokenBucket,
		[]string{"ratelimit:" + client},
		l.refill, l.capacity, l.now().UnixMilli(),
	)
	if err != nil {
		l.logger.Warn("Rate limiter unavailable, allowing request",
			zap.String("client", client),
			zap.Error(err),
		)
		return true
	}
	if v, ok := res.(int64); ok {
		return v == 1
	}
	return true
}

// Middleware rejects clients whose bucket is empty with 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		if !l.Allow(c.Request.Context(), c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
