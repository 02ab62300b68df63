package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"event-staffing-backend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block (default: 5)
	AttemptWindow time.Duration // window for counting attempts (default: 15min)
	BlockDuration time.Duration // block length after MaxAttempts (default: 15min)
	UseIPTracking bool          // also block the client IP (default: true)
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed sign-ins per email (and IP) and blocks further
// attempts once the limit is reached. Counters live in Redis when a client
// is given, otherwise in process memory.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client

	mu       sync.Mutex
	counters map[string]*memoryCounter
	blocks   map[string]time.Time
}

type memoryCounter struct {
	count   int
	resetAt time.Time
}

func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = 15 * time.Minute
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = 15 * time.Minute
	}
	return &LoginTracker{
		config:   config,
		client:   client,
		counters: make(map[string]*memoryCounter),
		blocks:   make(map[string]time.Time),
	}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked checks if the given email or IP is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	if lt.client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		now := time.Now()
		for _, k := range keys {
			if until, ok := lt.blocks[k]; ok {
				if now.Before(until) {
					return true, nil
				}
				delete(lt.blocks, k)
			}
		}
		return false, nil
	}

	exists, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt records a failed login and reports whether the email
// is now blocked, along with the current attempt count.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error) {
	userKey := failLoginUserPrefix + email
	count, err := lt.increment(ctx, userKey)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.increment(ctx, failLoginIPPrefix+ip)
	}

	logger.Log.Warn("Login failed", "email", email, "ip", ip, "attempts", count)

	if count >= lt.config.MaxAttempts {
		if err := lt.createBlock(ctx, email, ip); err != nil {
			return true, count, fmt.Errorf("failed to create block: %w", err)
		}
		return true, count, nil
	}
	return false, count, nil
}

func (lt *LoginTracker) increment(ctx context.Context, key string) (int, error) {
	if lt.client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		now := time.Now()
		c, ok := lt.counters[key]
		if !ok || now.After(c.resetAt) {
			c = &memoryCounter{resetAt: now.Add(lt.config.AttemptWindow)}
			lt.counters[key] = c
		}
		c.count++
		return c.count, nil
	}

	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email, ip string) error {
	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	if lt.client == nil {
		lt.mu.Lock()
		until := time.Now().Add(lt.config.BlockDuration)
		for _, k := range keys {
			lt.blocks[k] = until
		}
		lt.mu.Unlock()
	} else {
		if err := lt.client.Set(ctx, keys[0], "1", lt.config.BlockDuration).Err(); err != nil {
			return fmt.Errorf("failed to set user block: %w", err)
		}
		for _, k := range keys[1:] {
			if err := lt.client.Set(ctx, k, "1", lt.config.BlockDuration).Err(); err != nil {
				logger.Log.Warn("Failed to set IP block", "error", err)
			}
		}
	}

	logger.Log.Warn("Login blocked", "email", email, "ip", ip, "minutes", int(lt.config.BlockDuration.Minutes()))
	return nil
}

// ClearAttempts clears failed login attempts on successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	keys := []string{failLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}

	if lt.client == nil {
		lt.mu.Lock()
		for _, k := range keys {
			delete(lt.counters, k)
		}
		lt.mu.Unlock()
		return nil
	}
	if err := lt.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// RemainingAttempts returns how many attempts remain before a block.
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, email string) (int, error) {
	key := failLoginUserPrefix + email
	var count int

	if lt.client == nil {
		lt.mu.Lock()
		if c, ok := lt.counters[key]; ok && time.Now().Before(c.resetAt) {
			count = c.count
		}
		lt.mu.Unlock()
	} else {
		n, err := lt.client.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return 0, fmt.Errorf("failed to get attempt count: %w", err)
		}
		count = n
	}

	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
