// Package querycache caches read results keyed by operation name and ids.
// Mutations call Invalidate with the keys they affect so the next read goes
// back to the database.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"event-staffing-backend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

const keyPrefix = "q:"

// Key builds a cache key such as "q:jobs.open:1:20".
func Key(op string, ids ...interface{}) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(op)
	for _, id := range ids {
		b.WriteByte(':')
		fmt.Fprint(&b, id)
	}
	return b.String()
}

// Prefix matches every key of op whose ids start with ids.
func Prefix(op string, ids ...interface{}) string {
	return Key(op, ids...) + "*"
}

type backend interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	del(ctx context.Context, patterns ...string) error
}

// Cache is safe for concurrent use.
type Cache struct {
	store backend
	ttl   time.Duration
}

// New returns a Redis-backed cache, or an in-process one when client is nil.
func New(client *goredis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if client == nil {
		return &Cache{store: newMemoryBackend(), ttl: ttl}
	}
	return &Cache{store: &redisBackend{client: client}, ttl: ttl}
}

// Fetch fills dest from the cache, or runs loader, stores its result and
// copies it into dest. Cache failures are logged and fall through to loader.
func (c *Cache) Fetch(ctx context.Context, key string, dest interface{}, loader func() (interface{}, error)) error {
	data, ok, err := c.store.get(ctx, key)
	if err != nil {
		logger.Log.Warn("Query cache read failed", "key", key, "error", err)
	}
	if ok {
		if err := json.Unmarshal(data, dest); err == nil {
			return nil
		}
	}

	value, err := loader()
	if err != nil {
		return err
	}

	data, err = json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := c.store.set(ctx, key, data, c.ttl); err != nil {
		logger.Log.Warn("Query cache write failed", "key", key, "error", err)
	}
	return json.Unmarshal(data, dest)
}

// Invalidate drops exact keys and, for entries ending in "*", every key
// with that prefix.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.store.del(ctx, keys...); err != nil {
		logger.Log.Warn("Query cache invalidation failed", "keys", keys, "error", err)
	}
}

type redisBackend struct {
	client *goredis.Client
}

func (r *redisBackend) get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *redisBackend) set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisBackend) del(ctx context.Context, patterns ...string) error {
	var exact []string
	for _, p := range patterns {
		if !strings.HasSuffix(p, "*") {
			exact = append(exact, p)
			continue
		}
		iter := r.client.Scan(ctx, 0, p, 100).Iterator()
		for iter.Next(ctx) {
			exact = append(exact, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	if len(exact) == 0 {
		return nil
	}
	return r.client.Del(ctx, exact...).Err()
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

type memoryBackend struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{items: make(map[string]memoryItem)}
}

func (m *memoryBackend) get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false, nil
	}
	return item.data, true, nil
}

func (m *memoryBackend) set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	// drop expired entries on write so the map does not grow without bound
	for k, item := range m.items {
		if now.After(item.expiresAt) {
			delete(m.items, k)
		}
	}
	m.items[key] = memoryItem{data: data, expiresAt: now.Add(ttl)}
	return nil
}

func (m *memoryBackend) del(_ context.Context, patterns ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			for k := range m.items {
				if strings.HasPrefix(k, prefix) {
					delete(m.items, k)
				}
			}
			continue
		}
		delete(m.items, p)
	}
	return nil
}
