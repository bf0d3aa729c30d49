package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a ledger entry by its ID within an account
func (r *GormTransactionRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*finance.Transaction, error) {
	model, err := findOne[models.TransactionModel](ctx, r.db, accountID, id)
	if err != nil {
		return nil, err
	}
	tx := model.ToDomain()
	return &tx, nil
}

// FindAll returns the whole ledger of an account
func (r *GormTransactionRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]finance.Transaction, error) {
	return findAll(ctx, r.db, accountID, (*models.TransactionModel).ToDomain)
}

// Create inserts a new ledger entry
func (r *GormTransactionRepository) Create(ctx context.Context, tx *finance.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	model.Seq = nextSeq()
	model.CreatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Delete removes a ledger entry
func (r *GormTransactionRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return deleteOne[models.TransactionModel](ctx, r.db, accountID, id)
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
