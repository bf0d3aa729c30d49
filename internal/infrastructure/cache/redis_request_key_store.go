package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simpro/backend/internal/domain/shared"
)

const defaultRequestKeyPrefix = "simpro:request-key:"

// RedisRequestKeyStore implements RequestKeyStore on Redis so that all
// instances share claimed keys
type RedisRequestKeyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRequestKeyStore creates a store on an existing client.
// The caller retains ownership of the client.
func NewRedisRequestKeyStore(client *redis.Client, keyPrefix string) *RedisRequestKeyStore {
	if keyPrefix == "" {
		keyPrefix = defaultRequestKeyPrefix
	}
	return &RedisRequestKeyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim uses SETNX so that concurrent requests with the same key race safely
func (s *RedisRequestKeyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim request key: %w", err)
	}
	return ok, nil
}

// Release deletes a claimed key
func (s *RedisRequestKeyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release request key: %w", err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller
func (s *RedisRequestKeyStore) Close() error {
	return nil
}

var _ shared.RequestKeyStore = (*RedisRequestKeyStore)(nil)
