package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmaciavallenar/backend/internal/domain/providers"
	redisclient "github.com/farmaciavallenar/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
)

// RedisAdapter implements CacheProvider over Redis. A missing key is not
// an error: Get returns (nil, nil) so callers can treat misses and
// stored-empty values the same way.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

// Get retrieves a value from cache. Misses return (nil, nil).
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewConnectionError("cache get failed", err)
	}
	return result, nil
}

// Set stores a value with a TTL given in seconds. A non-positive TTL
// stores the value without expiration.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	var expiration time.Duration
	if expirationSeconds > 0 {
		expiration = time.Duration(expirationSeconds) * time.Second
	}
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return apperrors.NewConnectionError("cache set failed", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return apperrors.NewConnectionError("cache delete failed", err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.NewConnectionError("cache exists check failed", err)
	}
	return result > 0, nil
}
