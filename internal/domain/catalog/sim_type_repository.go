package catalog

import (
	"context"

	"github.com/google/uuid"
)

// SimTypeRepository defines the store operations for SimType
type SimTypeRepository interface {
	FindByID(ctx context.Context, accountID uuid.UUID, id string) (*SimType, error)
	FindAll(ctx context.Context, accountID uuid.UUID) ([]SimType, error)
	Create(ctx context.Context, simType *SimType) error
	Delete(ctx context.Context, accountID uuid.UUID, id string) error
}
