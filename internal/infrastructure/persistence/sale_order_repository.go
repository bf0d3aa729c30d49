package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/trade"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleOrderRepository implements trade.SaleOrderRepository using GORM
type GormSaleOrderRepository struct {
	db *gorm.DB
}

// NewGormSaleOrderRepository creates a new GormSaleOrderRepository
func NewGormSaleOrderRepository(db *gorm.DB) *GormSaleOrderRepository {
	return &GormSaleOrderRepository{db: db}
}

// FindByID finds an order by its ID within an account
func (r *GormSaleOrderRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*trade.SaleOrder, error) {
	model, err := findOne[models.SaleOrderModel](ctx, r.db, accountID, id)
	if err != nil {
		return nil, err
	}
	order := model.ToDomain()
	return &order, nil
}

// FindAll returns every order of an account
func (r *GormSaleOrderRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]trade.SaleOrder, error) {
	return findAll(ctx, r.db, accountID, (*models.SaleOrderModel).ToDomain)
}

// Create inserts a new order
func (r *GormSaleOrderRepository) Create(ctx context.Context, order *trade.SaleOrder) error {
	model := models.SaleOrderModelFromDomain(order)
	model.Seq = nextSeq()
	model.CreatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Delete removes an order. Its transactions and logs are kept.
func (r *GormSaleOrderRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return deleteOne[models.SaleOrderModel](ctx, r.db, accountID, id)
}

// ExtendDueDate writes the new due date, bumps the change counter in the
// database and appends the log entry in one transaction. order carries the
// counter after its own extension and the row only matches while the stored
// counter is still the one that extension started from. A stale order gets
// shared.ErrConflict.
func (r *GormSaleOrderRepository) ExtendDueDate(ctx context.Context, order *trade.SaleOrder, log *trade.DueDateLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SaleOrderModel{}).
			Scopes(ForAccount(order.AccountID)).
			Where("id = ? AND due_date_changes = ?", order.ID, order.DueDateChanges-1).
			Updates(map[string]any{
				"due_date":         order.DueDate,
				"due_date_changes": gorm.Expr("due_date_changes + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.SaleOrderModel{}).
				Scopes(ForAccount(order.AccountID)).Where("id = ?", order.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConflict
		}

		logModel := models.DueDateLogModelFromDomain(log)
		logModel.Seq = nextSeq()
		logModel.CreatedAt = time.Now()
		return translateError(tx.Create(logModel).Error)
	})
}

// GormDueDateLogRepository implements trade.DueDateLogRepository using GORM
type GormDueDateLogRepository struct {
	db *gorm.DB
}

// NewGormDueDateLogRepository creates a new GormDueDateLogRepository
func NewGormDueDateLogRepository(db *gorm.DB) *GormDueDateLogRepository {
	return &GormDueDateLogRepository{db: db}
}

// FindAll returns the whole extension history of an account
func (r *GormDueDateLogRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]trade.DueDateLog, error) {
	return findAll(ctx, r.db, accountID, (*models.DueDateLogModel).ToDomain)
}

// FindByOrder returns the extension history of one order, oldest first
func (r *GormDueDateLogRepository) FindByOrder(ctx context.Context, accountID uuid.UUID, orderID string) ([]trade.DueDateLog, error) {
	var rows []models.DueDateLogModel
	if err := r.db.WithContext(ctx).
		Scopes(ForAccount(accountID)).Where("order_id = ?", orderID).
		Order(listOrder).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]trade.DueDateLog, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, nil
}

var (
	_ trade.SaleOrderRepository  = (*GormSaleOrderRepository)(nil)
	_ trade.DueDateLogRepository = (*GormDueDateLogRepository)(nil)
)
