package trade

import (
	"context"

	"github.com/google/uuid"
)

// SaleOrderRepository defines the store operations for SaleOrder
type SaleOrderRepository interface {
	FindByID(ctx context.Context, accountID uuid.UUID, id string) (*SaleOrder, error)
	FindAll(ctx context.Context, accountID uuid.UUID) ([]SaleOrder, error)
	Create(ctx context.Context, order *SaleOrder) error
	Delete(ctx context.Context, accountID uuid.UUID, id string) error
	// ExtendDueDate persists the updated order and appends the log atomically.
	ExtendDueDate(ctx context.Context, order *SaleOrder, log *DueDateLog) error
}

// DueDateLogRepository reads the extension history
type DueDateLogRepository interface {
	FindAll(ctx context.Context, accountID uuid.UUID) ([]DueDateLog, error)
	FindByOrder(ctx context.Context, accountID uuid.UUID, orderID string) ([]DueDateLog, error)
}
