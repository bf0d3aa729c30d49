package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/event"
)

type fakeRepo struct {
	mu    stdsync.Mutex
	data  map[uuid.UUID]snapshot.Dataset
	loads int
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{data: map[uuid.UUID]snapshot.Dataset{}}
}

func (r *fakeRepo) LoadAll(_ context.Context, accountID uuid.UUID) (snapshot.Dataset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.err != nil {
		return snapshot.Dataset{}, r.err
	}
	d := r.data[accountID]
	return d.Clone(), nil
}

func (r *fakeRepo) ReplaceAll(_ context.Context, accountID uuid.UUID, data snapshot.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[accountID] = data
	return nil
}

func (r *fakeRepo) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

func simType(accountID uuid.UUID, name string) catalog.SimType {
	return catalog.SimType{BaseEntity: shared.NewBaseEntity(accountID), Name: name}
}

func typeNames(s *snapshot.Snapshot) []string {
	names := make([]string, 0, len(s.Data.SimTypes))
	for _, t := range s.Data.SimTypes {
		names = append(names, t.Name)
	}
	return names
}

func setup(t *testing.T) (*Synchronizer, *fakeRepo, *event.MemoryChangeFeed) {
	t.Helper()
	repo := newFakeRepo()
	feed := event.NewMemoryChangeFeed(zap.NewNop())
	s := NewSynchronizer(repo, feed, zap.NewNop())
	t.Cleanup(func() { _ = s.StopAll() })
	return s, repo, feed
}

func TestSynchronizer_SnapshotStartsTracking(t *testing.T) {
	s, repo, _ := setup(t)
	account := uuid.New()
	repo.data[account] = snapshot.Dataset{SimTypes: []catalog.SimType{simType(account, "Viettel")}}

	assert.False(t, s.IsTracking(account))
	snap, err := s.Snapshot(context.Background(), account)
	require.NoError(t, err)
	assert.True(t, s.IsTracking(account))
	assert.Equal(t, []string{"Viettel"}, typeNames(snap))

	_, err = s.Snapshot(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loadCount())
}

func TestSynchronizer_SnapshotIsACopy(t *testing.T) {
	s, repo, _ := setup(t)
	account := uuid.New()
	repo.data[account] = snapshot.Dataset{SimTypes: []catalog.SimType{simType(account, "Viettel")}}

	snap, err := s.Snapshot(context.Background(), account)
	require.NoError(t, err)
	snap.Data.SimTypes[0].Name = "changed"

	again, err := s.Snapshot(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, []string{"Viettel"}, typeNames(again))
}

func TestSynchronizer_MergesFeedChanges(t *testing.T) {
	s, _, feed := setup(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, s.Start(ctx, account))

	st := simType(account, "Mobifone")
	change, err := snapshot.NewChange(account, snapshot.EntitySimType, snapshot.OpInsert, st.ID, st)
	require.NoError(t, err)
	require.NoError(t, feed.Publish(ctx, change))

	assert.Eventually(t, func() bool {
		snap, err := s.Snapshot(ctx, account)
		return err == nil && len(snap.Data.SimTypes) == 1
	}, time.Second, 10*time.Millisecond)

	deleted, err := snapshot.NewChange(account, snapshot.EntitySimType, snapshot.OpDelete, st.ID, nil)
	require.NoError(t, err)
	require.NoError(t, feed.Publish(ctx, deleted))

	assert.Eventually(t, func() bool {
		snap, err := s.Snapshot(ctx, account)
		return err == nil && len(snap.Data.SimTypes) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSynchronizer_ReloadEvent(t *testing.T) {
	s, repo, feed := setup(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, s.Start(ctx, account))

	require.NoError(t, repo.ReplaceAll(ctx, account, snapshot.Dataset{
		SimTypes: []catalog.SimType{simType(account, "A"), simType(account, "B")},
	}))
	require.NoError(t, feed.Publish(ctx, snapshot.NewReload(account)))

	assert.Eventually(t, func() bool {
		snap, err := s.Snapshot(ctx, account)
		return err == nil && len(snap.Data.SimTypes) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestSynchronizer_StartFailureLeavesAccountUntracked(t *testing.T) {
	s, repo, feed := setup(t)
	account := uuid.New()
	repo.err = errors.New("db down")

	err := s.Start(context.Background(), account)
	require.Error(t, err)
	assert.False(t, s.IsTracking(account))
	assert.Equal(t, 0, feed.SubscriberCount(account))
}

func TestSynchronizer_Stop(t *testing.T) {
	s, _, feed := setup(t)
	account := uuid.New()
	require.NoError(t, s.Start(context.Background(), account))
	assert.Equal(t, 1, feed.SubscriberCount(account))

	require.NoError(t, s.Stop(account))
	assert.False(t, s.IsTracking(account))
	assert.Equal(t, 0, feed.SubscriberCount(account))
	require.NoError(t, s.Stop(account))
}

func TestNotifier_AppliesLocallyAndPublishes(t *testing.T) {
	s, _, feed := setup(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, s.Start(ctx, account))

	sub, err := feed.Subscribe(ctx, account)
	require.NoError(t, err)
	defer sub.Close()

	n := NewNotifier(feed, zap.NewNop(), WithLocalSync(s))
	st := simType(account, "Vinaphone")
	n.Inserted(ctx, account, snapshot.EntitySimType, st.ID, st)

	snap, err := s.Snapshot(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vinaphone"}, typeNames(snap))

	select {
	case c := <-sub.Changes():
		assert.Equal(t, snapshot.OpInsert, c.Op)
		assert.Equal(t, st.ID, c.ID)
	case <-time.After(time.Second):
		t.Fatal("change not published")
	}
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.Inserted(context.Background(), uuid.New(), snapshot.EntitySimType, "x", nil)
		n.Reloaded(context.Background(), uuid.New())
	})
}

type testClock struct {
	nanos atomic.Int64
}

func newTestClock(at time.Time) *testClock {
	c := &testClock{}
	c.nanos.Store(at.UnixNano())
	return c
}

func (c *testClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

func (c *testClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}

func TestSynchronizer_EvictIdle(t *testing.T) {
	repo := newFakeRepo()
	feed := event.NewMemoryChangeFeed(zap.NewNop())
	clock := newTestClock(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC))
	s := NewSynchronizer(repo, feed, zap.NewNop(), WithIdleTimeout(10*time.Minute))
	s.now = clock.Now
	t.Cleanup(func() { _ = s.StopAll() })

	ctx := context.Background()
	quiet, busy := uuid.New(), uuid.New()
	_, err := s.Snapshot(ctx, quiet)
	require.NoError(t, err)
	_, err = s.Snapshot(ctx, busy)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	_, err = s.Snapshot(ctx, busy)
	require.NoError(t, err)
	assert.Equal(t, 0, s.EvictIdle())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, s.EvictIdle())
	assert.False(t, s.IsTracking(quiet))
	assert.True(t, s.IsTracking(busy))
	assert.Equal(t, 0, feed.SubscriberCount(quiet))
	assert.Equal(t, 1, feed.SubscriberCount(busy))

	_, err = s.Snapshot(ctx, quiet)
	require.NoError(t, err)
	assert.True(t, s.IsTracking(quiet))
	assert.Equal(t, 3, repo.loadCount(), "an evicted account is loaded again on its next read")
}

func TestSynchronizer_EvictIdle_DisabledWithoutTimeout(t *testing.T) {
	s, _, _ := setup(t)
	account := uuid.New()
	require.NoError(t, s.Start(context.Background(), account))

	assert.Equal(t, 0, s.EvictIdle())
	assert.True(t, s.IsTracking(account))
}

type gatedRepo struct {
	*fakeRepo
	slow    uuid.UUID
	entered chan struct{}
	release chan struct{}
}

func (r *gatedRepo) LoadAll(ctx context.Context, accountID uuid.UUID) (snapshot.Dataset, error) {
	if accountID == r.slow {
		close(r.entered)
		<-r.release
	}
	return r.fakeRepo.LoadAll(ctx, accountID)
}

func TestSynchronizer_SlowFirstLoadOnlyBlocksItsAccount(t *testing.T) {
	repo := &gatedRepo{
		fakeRepo: newFakeRepo(),
		slow:     uuid.New(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s := NewSynchronizer(repo, event.NewMemoryChangeFeed(zap.NewNop()), zap.NewNop())
	t.Cleanup(func() { _ = s.StopAll() })
	ctx := context.Background()

	results := make(chan error, 2)
	read := func() {
		_, err := s.Snapshot(ctx, repo.slow)
		results <- err
	}
	go read()
	<-repo.entered
	go read()

	fast := make(chan error, 1)
	go func() {
		_, err := s.Snapshot(ctx, uuid.New())
		fast <- err
	}()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("another account waited for the slow load")
	}
	assert.False(t, s.IsTracking(repo.slow))

	close(repo.release)
	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("slow account never became readable")
		}
	}
	assert.True(t, s.IsTracking(repo.slow))
	assert.Equal(t, 2, repo.loadCount(), "readers of the slow account share one load")
}

func TestSynchronizer_WaitingReaderHonoursContext(t *testing.T) {
	repo := &gatedRepo{
		fakeRepo: newFakeRepo(),
		slow:     uuid.New(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s := NewSynchronizer(repo, event.NewMemoryChangeFeed(zap.NewNop()), zap.NewNop())
	t.Cleanup(func() { _ = s.StopAll() })

	first := make(chan error, 1)
	go func() {
		_, err := s.Snapshot(context.Background(), repo.slow)
		first <- err
	}()
	<-repo.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Snapshot(ctx, repo.slow)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(repo.release)
	require.NoError(t, <-first)
	assert.True(t, s.IsTracking(repo.slow))
}
