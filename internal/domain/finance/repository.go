package finance

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository defines the store operations for Transaction
type TransactionRepository interface {
	FindByID(ctx context.Context, accountID uuid.UUID, id string) (*Transaction, error)
	FindAll(ctx context.Context, accountID uuid.UUID) ([]Transaction, error)
	Create(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, accountID uuid.UUID, id string) error
}
