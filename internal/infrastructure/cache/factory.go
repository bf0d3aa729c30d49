package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/event"
)

// SharedState bundles the change feed and request key store. With a Redis
// client both are shared across instances; without one they are local.
type SharedState struct {
	Feed        snapshot.ChangeFeed
	RequestKeys shared.RequestKeyStore
	Distributed bool
}

// NewSharedState picks the Redis or in-memory implementations
func NewSharedState(client *redis.Client, logger *zap.Logger) SharedState {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		logger.Info("Redis disabled, using in-memory change feed and request keys")
		return SharedState{
			Feed:        event.NewMemoryChangeFeed(logger),
			RequestKeys: NewInMemoryRequestKeyStore(),
		}
	}
	return SharedState{
		Feed:        NewRedisChangeFeed(client, WithFeedLogger(logger)),
		RequestKeys: NewRedisRequestKeyStore(client, ""),
		Distributed: true,
	}
}
