package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSimPackageRepository implements inventory.SimPackageRepository using GORM
type GormSimPackageRepository struct {
	db *gorm.DB
}

// NewGormSimPackageRepository creates a new GormSimPackageRepository
func NewGormSimPackageRepository(db *gorm.DB) *GormSimPackageRepository {
	return &GormSimPackageRepository{db: db}
}

// FindByID finds a batch by its ID within an account
func (r *GormSimPackageRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*inventory.SimPackage, error) {
	model, err := findOne[models.SimPackageModel](ctx, r.db, accountID, id)
	if err != nil {
		return nil, err
	}
	pkg := model.ToDomain()
	return &pkg, nil
}

// FindAll returns every batch of an account
func (r *GormSimPackageRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]inventory.SimPackage, error) {
	return findAll(ctx, r.db, accountID, (*models.SimPackageModel).ToDomain)
}

// Create inserts a new batch
func (r *GormSimPackageRepository) Create(ctx context.Context, pkg *inventory.SimPackage) error {
	model := models.SimPackageModelFromDomain(pkg)
	model.Seq = nextSeq()
	model.CreatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Delete removes a batch
func (r *GormSimPackageRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return deleteOne[models.SimPackageModel](ctx, r.db, accountID, id)
}

var _ inventory.SimPackageRepository = (*GormSimPackageRepository)(nil)
