package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the counters in Redis so several instances share one
// window per IP. INCR is atomic; the TTL set on the first hit bounds the
// window.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, d time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, d).Err(); err != nil {
			return 0, fmt.Errorf("ratelimit: expire %s: %w", key, err)
		}
	}
	return count, nil
}

func (s *RedisStore) Decrement(ctx context.Context, key string) error {
	if err := s.client.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("ratelimit: decr %s: %w", key, err)
	}
	return nil
}
