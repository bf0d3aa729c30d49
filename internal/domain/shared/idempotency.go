package shared

import (
	"context"
	"time"
)

// RequestKeyStore remembers client-supplied idempotency keys so that a
// retried write is applied once
type RequestKeyStore interface {
	// Claim reserves a key for ttl. It returns false if the key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a key so a failed request can be retried
	Release(ctx context.Context, key string) error

	// Close releases any resources held by the store
	Close() error
}

// DefaultRequestKeyTTL is how long a claimed key blocks repeats
const DefaultRequestKeyTTL = 24 * time.Hour
