package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter enforces per-IP and per-user upload limits with a sliding
// window. Without Redis it keeps the windows in memory.
type UploadLimiter struct {
	client       *goredis.Client
	maxPerMinute int
	maxPerDay    int

	mu      sync.Mutex
	windows map[string][]time.Time
}

// KEYS[1] = key, ARGV = limit, window seconds, now (unix). Returns 1 if allowed.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter defaults to 10 uploads/min per IP and 50 uploads/day per user.
func NewUploadLimiter(client *goredis.Client, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client:       client,
		maxPerMinute: perMin,
		maxPerDay:    perDay,
		windows:      make(map[string][]time.Time),
	}
}

// AllowUpload returns (allowed, retryAfterSeconds, error). Redis errors fail
// closed.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	now := time.Now()

	allowed, err := ul.checkLimit(ctx, "ratelimit:upload:ip:"+ip, ul.maxPerMinute, time.Minute, now)
	if err != nil {
		return false, 60, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if userID != "" {
		allowed, err = ul.checkLimit(ctx, "ratelimit:upload:user:"+userID, ul.maxPerDay, 24*time.Hour, now)
		if err != nil {
			return false, 3600, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}
	return true, 0, nil
}

func (ul *UploadLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error) {
	if ul.client == nil {
		ul.mu.Lock()
		defer ul.mu.Unlock()
		cutoff := now.Add(-window)
		kept := ul.windows[key][:0]
		for _, t := range ul.windows[key] {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) >= limit {
			ul.windows[key] = kept
			return false, nil
		}
		ul.windows[key] = append(kept, now)
		return true, nil
	}

	result, err := ul.client.Eval(ctx, uploadRateLimitScript, []string{key}, limit, int(window.Seconds()), now.Unix()).Result()
	if err != nil {
		return false, err
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}
	return allowed == 1, nil
}
