package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the store operations for Customer
type CustomerRepository interface {
	FindByID(ctx context.Context, accountID uuid.UUID, id string) (*Customer, error)
	FindAll(ctx context.Context, accountID uuid.UUID) ([]Customer, error)
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, accountID uuid.UUID, id string) error
}
