package inventory

import (
	"context"

	"github.com/google/uuid"
)

// SimPackageRepository defines the store operations for SimPackage
type SimPackageRepository interface {
	FindByID(ctx context.Context, accountID uuid.UUID, id string) (*SimPackage, error)
	FindAll(ctx context.Context, accountID uuid.UUID) ([]SimPackage, error)
	Create(ctx context.Context, pkg *SimPackage) error
	Delete(ctx context.Context, accountID uuid.UUID, id string) error
}
