package event

import (
	"sync"

	"github.com/simpro/backend/internal/domain/snapshot"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 64

// Subscription is a buffered change stream. Delivery never blocks the
// publisher: when the buffer is full the change is dropped and the next
// successful delivery is a reload event instead.
type Subscription struct {
	ch      chan snapshot.Change
	mu      sync.Mutex
	lagged  bool
	closed  bool
	onClose func()
	once    sync.Once
}

// NewSubscription creates a subscription. onClose runs once, before the
// channel is closed.
func NewSubscription(buffer int, onClose func()) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Subscription{ch: make(chan snapshot.Change, buffer), onClose: onClose}
}

// Deliver queues a change and reports whether it was queued as-is
func (s *Subscription) Deliver(c snapshot.Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	if s.lagged {
		c = snapshot.NewReload(c.AccountID)
	}
	select {
	case s.ch <- c:
		wasLagged := s.lagged
		s.lagged = false
		return !wasLagged
	default:
		s.lagged = true
		return false
	}
}

// Changes returns the receive side of the stream
func (s *Subscription) Changes() <-chan snapshot.Change {
	return s.ch
}

// Close stops delivery and closes the channel. Safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
	return nil
}

var _ snapshot.Subscription = (*Subscription)(nil)
