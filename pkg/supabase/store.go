package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"event-staffing-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// StoredSession is what the store keeps per browser session key.
type StoredSession struct {
	Session  domain.Session  `json:"session"`
	Identity domain.Identity `json:"identity"`
}

// SessionStore persists sessions by browser session key. Load returns
// (nil, nil) for an unknown key.
type SessionStore interface {
	Save(ctx context.Context, key string, s *StoredSession) error
	Load(ctx context.Context, key string) (*StoredSession, error)
	Delete(ctx context.Context, key string) error
}

const sessionKeyPrefix = "sb:session:"

type redisSessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRedisSessionStore keeps sessions in Redis for ttl after the last write.
func NewRedisSessionStore(client *goredis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Save(ctx context.Context, key string, stored *StoredSession) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+key, data, s.ttl).Err()
}

func (s *redisSessionStore) Load(ctx context.Context, key string) (*StoredSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stored StoredSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &stored, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, sessionKeyPrefix+key).Err()
}

type memoryEntry struct {
	stored    StoredSession
	expiresAt time.Time
}

type memorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemorySessionStore is used when Redis is not configured. Sessions do
// not survive a restart.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{entries: make(map[string]memoryEntry), ttl: ttl}
}

func (s *memorySessionStore) Save(_ context.Context, key string, stored *StoredSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{stored: *stored, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *memorySessionStore) Load(_ context.Context, key string) (*StoredSession, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, nil
	}
	stored := entry.stored
	return &stored, nil
}

func (s *memorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
