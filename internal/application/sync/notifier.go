package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/snapshot"
)

// ChangeMetrics counts published changes
type ChangeMetrics interface {
	RecordChangePublished(ctx context.Context, op string)
}

// Notifier publishes changes after the store confirmed a write. A failed
// publish is logged and never undoes the write; subscribers recover on the
// next reload. A nil *Notifier publishes nothing.
type Notifier struct {
	feed    snapshot.ChangeFeed
	local   *Synchronizer
	metrics ChangeMetrics
	logger  *zap.Logger
}

// NotifierOption configures a Notifier
type NotifierOption func(*Notifier)

// WithLocalSync applies changes to the process's own snapshots immediately,
// so a read right after a write sees it.
func WithLocalSync(s *Synchronizer) NotifierOption {
	return func(n *Notifier) { n.local = s }
}

// WithChangeMetrics counts every published change
func WithChangeMetrics(m ChangeMetrics) NotifierOption {
	return func(n *Notifier) { n.metrics = m }
}

// NewNotifier creates a notifier over feed
func NewNotifier(feed snapshot.ChangeFeed, logger *zap.Logger, opts ...NotifierOption) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{feed: feed, logger: logger}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Inserted announces a new record
func (n *Notifier) Inserted(ctx context.Context, accountID uuid.UUID, entity snapshot.Entity, id string, record any) {
	n.record(ctx, accountID, entity, snapshot.OpInsert, id, record)
}

// Updated announces a changed record
func (n *Notifier) Updated(ctx context.Context, accountID uuid.UUID, entity snapshot.Entity, id string, record any) {
	n.record(ctx, accountID, entity, snapshot.OpUpdate, id, record)
}

// Deleted announces a removed record
func (n *Notifier) Deleted(ctx context.Context, accountID uuid.UUID, entity snapshot.Entity, id string) {
	n.record(ctx, accountID, entity, snapshot.OpDelete, id, nil)
}

// Reloaded announces that the whole account was replaced
func (n *Notifier) Reloaded(ctx context.Context, accountID uuid.UUID) {
	if n == nil {
		return
	}
	n.publish(ctx, snapshot.NewReload(accountID))
}

func (n *Notifier) record(ctx context.Context, accountID uuid.UUID, entity snapshot.Entity, op snapshot.Op, id string, record any) {
	if n == nil {
		return
	}
	change, err := snapshot.NewChange(accountID, entity, op, id, record)
	if err != nil {
		n.logger.Error("Failed to encode change", zap.String("entity", string(entity)), zap.String("id", id), zap.Error(err))
		change = snapshot.NewReload(accountID)
	}
	n.publish(ctx, change)
}

func (n *Notifier) publish(ctx context.Context, change snapshot.Change) {
	if n.local != nil {
		n.local.Apply(ctx, change)
	}
	if err := n.feed.Publish(ctx, change); err != nil {
		n.logger.Warn("Failed to publish change",
			zap.String("account_id", change.AccountID.String()),
			zap.String("entity", string(change.Entity)),
			zap.String("op", string(change.Op)),
			zap.Error(err),
		)
		return
	}
	if n.metrics != nil {
		n.metrics.RecordChangePublished(ctx, string(change.Op))
	}
}
