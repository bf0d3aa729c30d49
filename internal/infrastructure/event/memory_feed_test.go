package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/snapshot"
)

func TestMemoryChangeFeed_DeliversToAccountSubscribers(t *testing.T) {
	feed := NewMemoryChangeFeed(zap.NewNop())
	ctx := context.Background()
	accountA, accountB := uuid.New(), uuid.New()

	subA, err := feed.Subscribe(ctx, accountA)
	require.NoError(t, err)
	defer subA.Close()
	subB, err := feed.Subscribe(ctx, accountB)
	require.NoError(t, err)
	defer subB.Close()

	change := snapshot.Change{AccountID: accountA, Entity: snapshot.EntitySimType, Op: snapshot.OpInsert, ID: "t1"}
	require.NoError(t, feed.Publish(ctx, change))

	got := <-subA.Changes()
	assert.Equal(t, "t1", got.ID)
	assert.Empty(t, subB.Changes())
}

func TestMemoryChangeFeed_CloseUnsubscribes(t *testing.T) {
	feed := NewMemoryChangeFeed(nil)
	accountID := uuid.New()

	sub, err := feed.Subscribe(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.SubscriberCount(accountID))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, feed.SubscriberCount(accountID))

	_, open := <-sub.Changes()
	assert.False(t, open)

	assert.NoError(t, feed.Publish(context.Background(), snapshot.NewReload(accountID)))
}

func TestSubscription_OverflowTurnsIntoReload(t *testing.T) {
	accountID := uuid.New()
	sub := NewSubscription(2, nil)
	defer sub.Close()

	for i := 0; i < 3; i++ {
		sub.Deliver(snapshot.Change{AccountID: accountID, Op: snapshot.OpInsert, ID: "x"})
	}
	<-sub.Changes()
	<-sub.Changes()

	assert.False(t, sub.Deliver(snapshot.Change{AccountID: accountID, Op: snapshot.OpUpdate, ID: "y"}))
	got := <-sub.Changes()
	assert.Equal(t, snapshot.OpReload, got.Op)
	assert.Equal(t, accountID, got.AccountID)

	assert.True(t, sub.Deliver(snapshot.Change{AccountID: accountID, Op: snapshot.OpDelete, ID: "z"}))
	got = <-sub.Changes()
	assert.Equal(t, snapshot.OpDelete, got.Op)
}
