package event

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/snapshot"
)

// MemoryChangeFeed is a process-local change feed
type MemoryChangeFeed struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*Subscription]struct{}
	buffer int
	logger *zap.Logger
}

// NewMemoryChangeFeed creates a new in-memory change feed
func NewMemoryChangeFeed(logger *zap.Logger) *MemoryChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryChangeFeed{
		subs:   make(map[uuid.UUID]map[*Subscription]struct{}),
		buffer: DefaultBufferSize,
		logger: logger,
	}
}

// Publish delivers a change to the subscribers of its account
func (f *MemoryChangeFeed) Publish(ctx context.Context, change snapshot.Change) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.subs[change.AccountID] {
		if !sub.Deliver(change) {
			f.logger.Warn("subscriber lagging, reload scheduled",
				zap.String("account_id", change.AccountID.String()),
				zap.String("entity", string(change.Entity)),
				zap.String("op", string(change.Op)),
			)
		}
	}
	return nil
}

// Subscribe registers a subscriber for one account
func (f *MemoryChangeFeed) Subscribe(ctx context.Context, accountID uuid.UUID) (snapshot.Subscription, error) {
	var sub *Subscription
	sub = NewSubscription(f.buffer, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[accountID], sub)
		if len(f.subs[accountID]) == 0 {
			delete(f.subs, accountID)
		}
	})

	f.mu.Lock()
	if f.subs[accountID] == nil {
		f.subs[accountID] = make(map[*Subscription]struct{})
	}
	f.subs[accountID][sub] = struct{}{}
	f.mu.Unlock()

	f.logger.Debug("change feed subscribed", zap.String("account_id", accountID.String()))
	return sub, nil
}

// SubscriberCount returns the number of live subscribers of an account
func (f *MemoryChangeFeed) SubscriberCount(accountID uuid.UUID) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[accountID])
}

var _ snapshot.ChangeFeed = (*MemoryChangeFeed)(nil)
