package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestLocalRunLockerSerialisesPerTimetable(t *testing.T) {
	locker := NewLocalRunLocker()
	ctx := context.Background()

	release, ok, err := locker.Acquire(ctx, "tt-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, "tt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = locker.Acquire(ctx, "tt-2", time.Minute)
	assert.True(t, ok)

	release()
	release()
	_, ok, _ = locker.Acquire(ctx, "tt-1", time.Minute)
	assert.True(t, ok)
}

func TestLocalRunLockerExpiredHolder(t *testing.T) {
	locker := NewLocalRunLocker()
	now := time.Date(2024, 10, 28, 8, 0, 0, 0, time.UTC)
	locker.now = func() time.Time { return now }

	staleRelease, ok, _ := locker.Acquire(context.Background(), "tt-1", time.Minute)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = locker.Acquire(context.Background(), "tt-1", time.Minute)
	require.True(t, ok)

	// The stale holder must not release the lock taken after it expired.
	staleRelease()
	_, ok, _ = locker.Acquire(context.Background(), "tt-1", time.Minute)
	assert.False(t, ok)
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "sma-timetable", nil)
	var dest map[string]string

	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", map[string]string{"a": "b"}, time.Minute))
}

func TestCacheRepositoryKeyNamespace(t *testing.T) {
	assert.Equal(t, "sma-timetable:timetable:generation:run:tt-1", NewCacheRepository(nil, "sma-timetable", nil).key("timetable:generation:run:tt-1"))
	assert.Equal(t, "k", NewCacheRepository(nil, "", nil).key("k"))
}
