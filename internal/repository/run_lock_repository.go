package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const runLockPrefix = "timetable:generation:lock:"

// Releases the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RunLockRepository serialises generation runs per timetable across processes.
type RunLockRepository struct {
	client *redis.Client
}

// NewRunLockRepository constructs a Redis backed run lock.
func NewRunLockRepository(client *redis.Client) *RunLockRepository {
	return &RunLockRepository{client: client}
}

// Acquire tries to take the lock for timetableID. ok is false when another
// run holds it. The returned release func is safe to call more than once.
func (r *RunLockRepository) Acquire(ctx context.Context, timetableID string, ttl time.Duration) (func(), bool, error) {
	key := runLockPrefix + timetableID
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire run lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = releaseScript.Run(context.Background(), r.client, []string{key}, token).Err()
		})
	}
	return release, true, nil
}

// LocalRunLocker is the in-process run lock used when Redis is disabled.
type LocalRunLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewLocalRunLocker constructs a LocalRunLocker.
func NewLocalRunLocker() *LocalRunLocker {
	return &LocalRunLocker{held: make(map[string]time.Time), now: time.Now}
}

// Acquire takes the lock for timetableID unless an unexpired holder exists.
func (l *LocalRunLocker) Acquire(_ context.Context, timetableID string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiry, ok := l.held[timetableID]; ok && now.Before(expiry) {
		return nil, false, nil
	}
	expiry := now.Add(ttl)
	l.held[timetableID] = expiry

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.held[timetableID].Equal(expiry) {
				delete(l.held, timetableID)
			}
		})
	}
	return release, true, nil
}
