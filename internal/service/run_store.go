package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type storedRun struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryRunStore keeps run summaries in process when Redis is disabled. It
// matches the CacheRepository contract: JSON values, TTL expiry, ErrCacheMiss.
type MemoryRunStore struct {
	mu    sync.RWMutex
	items map[string]storedRun
	now   func() time.Time
}

// NewMemoryRunStore constructs an empty store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{items: make(map[string]storedRun), now: time.Now}
}

// Get unmarshals the value stored under key into dest.
func (s *MemoryRunStore) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(item.payload, dest); err != nil {
		return fmt.Errorf("unmarshal run %s: %w", key, err)
	}
	return nil
}

// Set stores value under key. A non-positive ttl never expires.
func (s *MemoryRunStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", key, err)
	}
	item := storedRun{payload: payload}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}
