package cache

import (
	"context"
	"sync"
	"time"

	"github.com/simpro/backend/internal/domain/shared"
)

// InMemoryRequestKeyStore implements RequestKeyStore with a map.
// It suits single-instance deployments and tests.
type InMemoryRequestKeyStore struct {
	mu        sync.Mutex
	expiries  map[string]time.Time
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRequestKeyStore creates the store and starts its cleanup loop
func NewInMemoryRequestKeyStore() *InMemoryRequestKeyStore {
	store := &InMemoryRequestKeyStore{
		expiries: make(map[string]time.Time),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Claim reserves a key unless it is held and not yet expired
func (s *InMemoryRequestKeyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, held := s.expiries[key]; held && now.Before(exp) {
		return false, nil
	}
	s.expiries[key] = now.Add(ttl)
	return true, nil
}

// Release frees a key
func (s *InMemoryRequestKeyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expiries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryRequestKeyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryRequestKeyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryRequestKeyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, exp := range s.expiries {
		if !now.Before(exp) {
			delete(s.expiries, key)
		}
	}
}

// Size returns the number of held keys (for testing/monitoring)
func (s *InMemoryRequestKeyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiries)
}

var _ shared.RequestKeyStore = (*InMemoryRequestKeyStore)(nil)
