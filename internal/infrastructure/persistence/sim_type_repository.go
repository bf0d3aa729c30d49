package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSimTypeRepository implements catalog.SimTypeRepository using GORM
type GormSimTypeRepository struct {
	db *gorm.DB
}

// NewGormSimTypeRepository creates a new GormSimTypeRepository
func NewGormSimTypeRepository(db *gorm.DB) *GormSimTypeRepository {
	return &GormSimTypeRepository{db: db}
}

// FindByID finds a sim type by its ID within an account
func (r *GormSimTypeRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*catalog.SimType, error) {
	model, err := findOne[models.SimTypeModel](ctx, r.db, accountID, id)
	if err != nil {
		return nil, err
	}
	st := model.ToDomain()
	return &st, nil
}

// FindAll returns every sim type of an account
func (r *GormSimTypeRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]catalog.SimType, error) {
	return findAll(ctx, r.db, accountID, (*models.SimTypeModel).ToDomain)
}

// Create inserts a new sim type
func (r *GormSimTypeRepository) Create(ctx context.Context, simType *catalog.SimType) error {
	model := models.SimTypeModelFromDomain(simType)
	model.Seq = nextSeq()
	model.CreatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Delete removes a sim type. Batches and orders that reference it are kept.
func (r *GormSimTypeRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return deleteOne[models.SimTypeModel](ctx, r.db, accountID, id)
}

var _ catalog.SimTypeRepository = (*GormSimTypeRepository)(nil)
