package snapshot

import (
	"context"

	"github.com/google/uuid"
)

// AccountDataRepository reads and replaces the complete data set of an account
type AccountDataRepository interface {
	// LoadAll returns every record of the account
	LoadAll(ctx context.Context, accountID uuid.UUID) (Dataset, error)

	// ReplaceAll deletes the account's records and writes data in their place.
	// Either everything is replaced or nothing changes.
	ReplaceAll(ctx context.Context, accountID uuid.UUID, data Dataset) error
}
