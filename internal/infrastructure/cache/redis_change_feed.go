package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/event"
)

const (
	// DefaultChangeChannelPrefix is followed by the account id
	DefaultChangeChannelPrefix = "simpro:changes:"

	defaultCloseTimeout = 5 * time.Second
)

// RedisChangeFeed publishes change events over Redis Pub/Sub so every
// server instance sees the writes of the others
type RedisChangeFeed struct {
	client *redis.Client
	prefix string
	buffer int
	logger *zap.Logger
}

// RedisChangeFeedOption is a functional option for configuring the feed
type RedisChangeFeedOption func(*RedisChangeFeed)

// WithChannelPrefix sets the Pub/Sub channel prefix
func WithChannelPrefix(prefix string) RedisChangeFeedOption {
	return func(f *RedisChangeFeed) {
		f.prefix = prefix
	}
}

// WithFeedLogger sets the logger for the feed
func WithFeedLogger(logger *zap.Logger) RedisChangeFeedOption {
	return func(f *RedisChangeFeed) {
		f.logger = logger
	}
}

// WithSubscriberBuffer sets the per-subscriber queue length
func WithSubscriberBuffer(n int) RedisChangeFeedOption {
	return func(f *RedisChangeFeed) {
		f.buffer = n
	}
}

// NewRedisChangeFeed creates a feed on an existing client.
// The caller retains ownership of the client.
func NewRedisChangeFeed(client *redis.Client, opts ...RedisChangeFeedOption) *RedisChangeFeed {
	f := &RedisChangeFeed{
		client: client,
		prefix: DefaultChangeChannelPrefix,
		buffer: event.DefaultBufferSize,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Channel returns the Pub/Sub channel of an account
func (f *RedisChangeFeed) Channel(accountID uuid.UUID) string {
	return f.prefix + accountID.String()
}

// Publish sends a change to all subscribers of its account
func (f *RedisChangeFeed) Publish(ctx context.Context, change snapshot.Change) error {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}

	channel := f.Channel(change.AccountID)
	if err := f.client.Publish(ctx, channel, data).Err(); err != nil {
		f.logger.Error("Failed to publish change",
			zap.String("channel", channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish change: %w", err)
	}

	f.logger.Debug("Published change",
		zap.String("channel", channel),
		zap.String("entity", string(change.Entity)),
		zap.String("op", string(change.Op)),
		zap.String("id", change.ID))
	return nil
}

// Subscribe listens on the account channel until the subscription is closed
func (f *RedisChangeFeed) Subscribe(ctx context.Context, accountID uuid.UUID) (snapshot.Subscription, error) {
	channel := f.Channel(accountID)
	subCtx, cancel := context.WithCancel(context.Background())

	pubsub := f.client.Subscribe(subCtx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	var wg sync.WaitGroup
	sub := event.NewSubscription(f.buffer, func() {
		cancel()
		_ = pubsub.Close()
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(defaultCloseTimeout):
			f.logger.Warn("Timeout waiting for subscription to stop", zap.String("channel", channel))
		}
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		f.pump(subCtx, pubsub.Channel(), sub, channel)
	}()

	f.logger.Info("Subscribed to change channel", zap.String("channel", channel))
	return sub, nil
}

func (f *RedisChangeFeed) pump(ctx context.Context, ch <-chan *redis.Message, sub *event.Subscription, channel string) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var change snapshot.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				f.logger.Error("Failed to unmarshal change",
					zap.String("channel", channel),
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			if !sub.Deliver(change) {
				f.logger.Warn("Subscriber lagging, reload scheduled", zap.String("channel", channel))
			}
		}
	}
}

var _ snapshot.ChangeFeed = (*RedisChangeFeed)(nil)
