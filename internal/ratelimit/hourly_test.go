package ratelimit_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jewelry-studio-backend/internal/ratelimit"
)

type memoryCounter struct {
	counts map[string]int
	err    error
}

func (m *memoryCounter) IncrementRateLimit(ctx context.Context, identifier string, hour int64) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	key := fmt.Sprintf("%s:%d", identifier, hour)
	m.counts[key]++
	return m.counts[key], nil
}

func TestStoreHourly_AllowsUpToLimit(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 15, 0, 0, time.UTC)
	limiter := ratelimit.NewStoreHourly(&memoryCounter{}, 10).WithClock(func() time.Time { return now })

	for i := 0; i < 10; i++ {
		ok, err := limiter.Allow(context.Background(), "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}

	ok, err := limiter.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(context.Background(), "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreHourly_NewHourResets(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 59, 0, 0, time.UTC)
	limiter := ratelimit.NewStoreHourly(&memoryCounter{}, 1).WithClock(func() time.Time { return now })

	ok, _ := limiter.Allow(context.Background(), "client")
	assert.True(t, ok)
	ok, _ = limiter.Allow(context.Background(), "client")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = limiter.Allow(context.Background(), "client")
	assert.True(t, ok)
}

func TestStoreHourly_Errors(t *testing.T) {
	limiter := ratelimit.NewStoreHourly(&memoryCounter{err: errors.New("db down")}, 10)

	_, err := limiter.Allow(context.Background(), "client")
	assert.Error(t, err)

	_, err = limiter.Allow(context.Background(), "")
	assert.Error(t, err)
}

func TestNilRedisHelpers(t *testing.T) {
	assert.Nil(t, ratelimit.NewRedisHourly(nil, "generations", 10))
	assert.Nil(t, ratelimit.NewLocker(nil))

	var locker *ratelimit.Locker
	_, ok, err := locker.TryLock(context.Background(), "key", time.Second)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.NoError(t, locker.Release(context.Background(), "key", "token"))
}
