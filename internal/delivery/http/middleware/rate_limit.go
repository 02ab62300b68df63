package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// GlobalRateLimitConfig is applied to every route.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   clientIPKey,
	}
}

// LoginRateLimitConfig guards the sign-in and sign-up forms.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:login:",
		FailClosed: true,
		KeyFunc:    clientIPKey,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter is the in-process fallback: a token bucket per key that
// refills Limit tokens per Window. Idle visitors are swept on access.
type localLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newLocalLimiter(config RateLimitConfig) *localLimiter {
	idle := 10 * time.Minute
	if config.Window > idle {
		idle = config.Window
	}
	return &localLimiter{
		visitors:  make(map[string]*visitor),
		every:     rate.Every(config.Window / time.Duration(config.Limit)),
		burst:     config.Limit,
		idle:      idle,
		lastSweep: time.Now(),
	}
}

func (l *localLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		l.sweepLocked(now)
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *localLimiter) sweepLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware counts requests in Redis when a client is given and
// falls back to an in-process token bucket when it is nil or failing.
func RateLimitMiddleware(client *goredis.Client, config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 {
		config.Limit = 100
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}
	local := newLocalLimiter(config)

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		limit := strconv.Itoa(config.Limit)

		if client != nil {
			count, resetAt, err := checkRateLimitRedis(c.Request.Context(), client, config.KeyPrefix+key, config)
			if err == nil {
				c.Header("X-RateLimit-Limit", limit)
				c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))
				if count > config.Limit {
					reject(c, time.Until(resetAt))
					return
				}
				c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
				c.Next()
				return
			}

			logger.Log.Warn("Rate limit store unavailable",
				"prefix", config.KeyPrefix,
				"error", err,
			)
			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
		}

		reservation := local.get(key, time.Now()).Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			c.Header("X-RateLimit-Limit", limit)
			reject(c, delay)
			return
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Next()
	}
}

func reject(c *gin.Context, retryIn time.Duration) {
	retryAfter := int(retryIn.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("Retry-After", strconv.Itoa(retryAfter))

	logger.Log.Warn("Rate limit triggered",
		"ip", c.ClientIP(),
		"path", c.FullPath(),
		"request_id", c.GetString(RequestIDKey),
	)
	response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	c.Abort()
}

// checkRateLimitRedis checks rate limit using Redis with atomic Lua script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}
