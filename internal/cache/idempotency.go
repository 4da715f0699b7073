package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers idempotency keys in Redis for a fixed TTL.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Claim records key and reports whether this call was the first to do so
// within the TTL.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, redisKey(key), "exists", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("could not claim idempotency key: %w", err)
	}
	return ok, nil
}

// Release forgets key so that a failed request can be retried with it.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, redisKey(key)).Err()
}

func redisKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}
