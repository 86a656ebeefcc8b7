package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on, so every call
// fails at dial time without needing a running Redis.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRecallReportsStoreFailure(t *testing.T) {
	s := NewRedisIdempotencyStore(unreachableClient(), time.Minute)

	id, ok, err := s.Recall(context.Background(), "client-7", "idem-1")

	require.Error(t, err)
	assert.False(t, ok, "a store failure must not look like a hit")
	assert.Empty(t, id)
}

func TestTryLockReportsStoreFailure(t *testing.T) {
	s := NewRedisIdempotencyStore(unreachableClient(), time.Minute)

	ok, err := s.TryLock(context.Background(), "client-7", "idem-1")

	require.Error(t, err)
	assert.False(t, ok)
}
