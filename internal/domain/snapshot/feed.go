package snapshot

import (
	"context"

	"github.com/google/uuid"
)

// ChangeFeed carries change events between writers and snapshot holders
type ChangeFeed interface {
	// Publish sends a change to every subscriber of its account
	Publish(ctx context.Context, change Change) error
	// Subscribe starts receiving the changes of one account
	Subscribe(ctx context.Context, accountID uuid.UUID) (Subscription, error)
}

// Subscription is a live stream of changes. A subscriber that falls behind
// receives a reload event in place of the changes it missed.
type Subscription interface {
	Changes() <-chan Change
	Close() error
}
