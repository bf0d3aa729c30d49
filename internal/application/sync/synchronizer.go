// Package sync keeps per-account snapshots current. The Synchronizer loads
// an account once, follows its change feed and hands out immutable copies;
// the Notifier is the write side that publishes confirmed writes.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/snapshot"
)

// Synchronizer owns the live snapshot of every tracked account. An account is
// tracked from its first read until Stop, or until it has gone unread for the
// idle timeout and EvictIdle drops it.
type Synchronizer struct {
	repo      snapshot.AccountDataRepository
	feed      snapshot.ChangeFeed
	logger    *zap.Logger
	now       func() time.Time
	idleAfter time.Duration

	mu       stdsync.Mutex
	accounts map[uuid.UUID]*tracked
}

type tracked struct {
	// ready closes once the first load finished; err is set before that when it failed
	ready chan struct{}
	err   error

	mu     stdsync.RWMutex
	snap   *snapshot.Snapshot
	sub    snapshot.Subscription
	cancel context.CancelFunc
	done   chan struct{}

	lastRead atomic.Int64
}

func (t *tracked) touch(at time.Time) {
	t.lastRead.Store(at.UnixNano())
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithIdleTimeout lets EvictIdle drop accounts not read for d. Zero keeps
// every account until Stop.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.idleAfter = d
	}
}

// NewSynchronizer creates a synchronizer reading from repo and following feed
func NewSynchronizer(repo snapshot.AccountDataRepository, feed snapshot.ChangeFeed, logger *zap.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		repo:     repo,
		feed:     feed,
		logger:   logger,
		now:      time.Now,
		accounts: make(map[uuid.UUID]*tracked),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the account and begins following its change feed. Starting an
// account that is already tracked does nothing.
func (s *Synchronizer) Start(ctx context.Context, accountID uuid.UUID) error {
	_, err := s.start(ctx, accountID)
	return err
}

// start registers the account and loads it outside s.mu, so a slow first
// load only holds up readers of the same account.
func (s *Synchronizer) start(ctx context.Context, accountID uuid.UUID) (*tracked, error) {
	s.mu.Lock()
	if t, ok := s.accounts[accountID]; ok {
		s.mu.Unlock()
		return await(ctx, t)
	}
	t := &tracked{ready: make(chan struct{})}
	t.touch(s.now())
	s.accounts[accountID] = t
	s.mu.Unlock()

	// waiters share this load, so one caller giving up must not cancel it
	if err := s.open(context.WithoutCancel(ctx), accountID, t); err != nil {
		s.mu.Lock()
		if s.accounts[accountID] == t {
			delete(s.accounts, accountID)
		}
		s.mu.Unlock()
		t.err = err
		close(t.ready)
		return nil, err
	}
	close(t.ready)

	s.logger.Info("Snapshot sync started", zap.String("account_id", accountID.String()))
	return t, nil
}

func (s *Synchronizer) open(ctx context.Context, accountID uuid.UUID, t *tracked) error {
	// Subscribe before loading so nothing written in between is lost
	sub, err := s.feed.Subscribe(ctx, accountID)
	if err != nil {
		return fmt.Errorf("subscribe to changes of %s: %w", accountID, err)
	}
	data, err := s.repo.LoadAll(ctx, accountID)
	if err != nil {
		_ = sub.Close()
		return fmt.Errorf("load account %s: %w", accountID, err)
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	t.snap = snapshot.New(accountID, data, s.now())
	t.sub = sub
	t.cancel = cancel
	t.done = make(chan struct{})
	go s.pump(pumpCtx, accountID, t)
	return nil
}

func await(ctx context.Context, t *tracked) (*tracked, error) {
	select {
	case <-t.ready:
		if t.err != nil {
			return nil, t.err
		}
		return t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// live returns the tracked account once its first load succeeded
func (s *Synchronizer) live(accountID uuid.UUID) (*tracked, bool) {
	s.mu.Lock()
	t, ok := s.accounts[accountID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	<-t.ready
	return t, t.err == nil
}

// Stop stops following the account and drops its snapshot
func (s *Synchronizer) Stop(accountID uuid.UUID) error {
	s.mu.Lock()
	t, ok := s.accounts[accountID]
	delete(s.accounts, accountID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return s.teardown(accountID, t)
}

func (s *Synchronizer) teardown(accountID uuid.UUID, t *tracked) error {
	<-t.ready
	if t.err != nil {
		return nil
	}
	t.cancel()
	err := t.sub.Close()
	<-t.done
	s.logger.Info("Snapshot sync stopped", zap.String("account_id", accountID.String()))
	return err
}

// StopAll stops every tracked account
func (s *Synchronizer) StopAll() error {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		errs = append(errs, s.Stop(id))
	}
	return errors.Join(errs...)
}

// EvictIdle stops every account whose snapshot has not been read for the idle
// timeout and returns how many were stopped. The next read loads it again.
func (s *Synchronizer) EvictIdle() int {
	if s.idleAfter <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleAfter).UnixNano()

	idle := make(map[uuid.UUID]*tracked)
	s.mu.Lock()
	for id, t := range s.accounts {
		if t.lastRead.Load() < cutoff {
			idle[id] = t
			delete(s.accounts, id)
		}
	}
	s.mu.Unlock()

	for id, t := range idle {
		if err := s.teardown(id, t); err != nil {
			s.logger.Warn("Idle snapshot did not stop cleanly",
				zap.String("account_id", id.String()),
				zap.Error(err),
			)
		}
	}
	return len(idle)
}

// Run calls EvictIdle every interval until ctx is done
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration) {
	if s.idleAfter <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.logger.Debug("Evicted idle snapshots", zap.Int("count", n))
			}
		}
	}
}

// IsTracking reports whether the account has a live snapshot
func (s *Synchronizer) IsTracking(accountID uuid.UUID) bool {
	s.mu.Lock()
	t, ok := s.accounts[accountID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-t.ready:
		return t.err == nil
	default:
		return false
	}
}

// Snapshot returns an immutable copy of the account's snapshot, starting
// to track the account on first use.
func (s *Synchronizer) Snapshot(ctx context.Context, accountID uuid.UUID) (*snapshot.Snapshot, error) {
	t, err := s.start(ctx, accountID)
	if err != nil {
		return nil, err
	}
	t.touch(s.now())
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.Clone(), nil
}

// Apply merges a locally confirmed change into a tracked snapshot right away,
// ahead of its delivery through the feed. Untracked accounts are ignored.
func (s *Synchronizer) Apply(ctx context.Context, change snapshot.Change) {
	if t, ok := s.live(change.AccountID); ok {
		s.merge(ctx, change.AccountID, t, change)
	}
}

// Reload replaces a tracked snapshot with a fresh load from the store
func (s *Synchronizer) Reload(ctx context.Context, accountID uuid.UUID) error {
	t, ok := s.live(accountID)
	if !ok {
		return nil
	}
	return s.reload(ctx, accountID, t)
}

func (s *Synchronizer) pump(ctx context.Context, accountID uuid.UUID, t *tracked) {
	defer close(t.done)
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-t.sub.Changes():
			if !ok {
				return
			}
			s.merge(ctx, accountID, t, change)
		}
	}
}

func (s *Synchronizer) merge(ctx context.Context, accountID uuid.UUID, t *tracked, change snapshot.Change) {
	t.mu.Lock()
	_, err := t.snap.Apply(change)
	t.mu.Unlock()
	if err == nil {
		return
	}

	if !errors.Is(err, snapshot.ErrReloadRequired) {
		s.logger.Warn("Change could not be merged, reloading",
			zap.String("account_id", accountID.String()),
			zap.String("entity", string(change.Entity)),
			zap.String("op", string(change.Op)),
			zap.Error(err),
		)
	}
	if err := s.reload(ctx, accountID, t); err != nil {
		s.logger.Error("Snapshot reload failed",
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
	}
}

func (s *Synchronizer) reload(ctx context.Context, accountID uuid.UUID, t *tracked) error {
	data, err := s.repo.LoadAll(ctx, accountID)
	if err != nil {
		return fmt.Errorf("reload account %s: %w", accountID, err)
	}
	t.mu.Lock()
	t.snap = snapshot.New(accountID, data, s.now())
	t.mu.Unlock()
	return nil
}
