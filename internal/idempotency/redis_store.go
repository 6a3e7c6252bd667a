package idempotency

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the double-submission guard with redis so the replay
// window holds across service instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, addr)
	}

	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Claim(ctx context.Context, key string) (bool, error) {
	cacheKey := fmt.Sprintf("stocklens:idem:%s", key)
	ok, err := s.client.SetNX(ctx, cacheKey, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
