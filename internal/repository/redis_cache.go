package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// predictionTTL bounds how long a cached simulation lives. The cache key
// already changes whenever the underlying snapshot changes, so the TTL only
// controls memory, not staleness.
const predictionTTL = 12 * time.Hour

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: rdb,
		ctx:    context.Background(),
	}
}

func (r *RedisCache) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(key string, value string) error {
	return r.client.Set(r.ctx, key, value, predictionTTL).Err()
}
