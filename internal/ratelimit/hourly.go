package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Limiter admits at most a fixed number of actions per identifier per clock
// hour.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}

func hourBucket(t time.Time) int64 {
	return t.UTC().Unix() / int64(time.Hour/time.Second)
}

// RedisHourly counts actions in Redis with one expiring key per hour bucket.
type RedisHourly struct {
	client *redis.Client
	prefix string
	limit  int
	now    func() time.Time
}

func NewRedisHourly(client *redis.Client, prefix string, limit int) *RedisHourly {
	if client == nil {
		return nil
	}
	return &RedisHourly{client: client, prefix: prefix, limit: limit, now: time.Now}
}

func (r *RedisHourly) Allow(ctx context.Context, identifier string) (bool, error) {
	if r == nil || r.client == nil {
		return false, errors.New("rate limiter not configured")
	}
	if identifier == "" {
		return false, errors.New("rate limiter identifier is empty")
	}

	key := fmt.Sprintf("%s:%s:%d", r.prefix, identifier, hourBucket(r.now()))

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Hour+time.Minute)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", key, err)
	}

	return incr.Val() <= int64(r.limit), nil
}

// Counter is the persistent counter behind StoreHourly.
type Counter interface {
	IncrementRateLimit(ctx context.Context, identifier string, hour int64) (int, error)
}

// StoreHourly counts actions in the rate_limits table. It serves deployments
// without Redis.
type StoreHourly struct {
	store Counter
	limit int
	now   func() time.Time
}

func NewStoreHourly(store Counter, limit int) *StoreHourly {
	return &StoreHourly{store: store, limit: limit, now: time.Now}
}

// WithClock replaces the time source.
func (s *StoreHourly) WithClock(now func() time.Time) *StoreHourly {
	s.now = now
	return s
}

func (s *StoreHourly) Allow(ctx context.Context, identifier string) (bool, error) {
	if identifier == "" {
		return false, errors.New("rate limiter identifier is empty")
	}
	count, err := s.store.IncrementRateLimit(ctx, identifier, hourBucket(s.now()))
	if err != nil {
		return false, err
	}
	return count <= s.limit, nil
}
