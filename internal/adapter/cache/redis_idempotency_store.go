package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

// RedisIdempotencyStore guards checkout against replayed client requests.
// TryLock claims a (clientKey, idempotencyKey) pair; Remember/Recall map
// the pair to the order it produced so replays get the original order.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

var _ usecase.IdempotencyStore = (*RedisIdempotencyStore)(nil)

func (s *RedisIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, "idemp:"+scope+":"+key, "1", s.ttl).Result()
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, "idemp:map:"+scope+":"+key, value, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, "idemp:map:"+scope+":"+key).Result()
	switch {
	case err == redis.Nil:
		return "", false, nil
	case err != nil:
		// a store failure is not a miss; the caller must not proceed as
		// if the key were unused
		return "", false, err
	}
	return val, true, nil
}
