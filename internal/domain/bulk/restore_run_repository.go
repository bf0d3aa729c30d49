package bulk

import (
	"context"

	"github.com/google/uuid"
)

// RestoreRunRepository defines the interface for restore run persistence
type RestoreRunRepository interface {
	// FindByID finds a restore run by ID
	FindByID(ctx context.Context, accountID uuid.UUID, id string) (*RestoreRun, error)

	// FindRecent returns the latest runs of an account, newest first
	FindRecent(ctx context.Context, accountID uuid.UUID, limit int) ([]RestoreRun, error)

	// Save creates or updates a restore run
	Save(ctx context.Context, run *RestoreRun) error
}
