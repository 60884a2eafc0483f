package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_IncrementCounts(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := s.Increment(ctx, "auth:1.2.3.4", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestRedisStore_WindowExpiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Increment(ctx, "auth:1.2.3.4", time.Minute)
		require.NoError(t, err)
	}

	mr.FastForward(time.Minute + time.Second)

	got, err := s.Increment(ctx, "auth:1.2.3.4", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), got, "expired window should start over")
}

func TestRedisStore_DecrementRefunds(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Increment(ctx, "auth:1.2.3.4", time.Minute)
		require.NoError(t, err)
	}
	require.NoError(t, s.Decrement(ctx, "auth:1.2.3.4"))

	got, err := s.Increment(ctx, "auth:1.2.3.4", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(3), got)
}

func TestRedisStore_UnavailableReturnsError(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.Increment(context.Background(), "auth:1.2.3.4", time.Minute)
	require.Error(t, err)
}
