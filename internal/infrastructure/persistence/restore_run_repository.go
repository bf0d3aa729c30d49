package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/bulk"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRestoreRunRepository implements bulk.RestoreRunRepository using GORM
type GormRestoreRunRepository struct {
	db *gorm.DB
}

// NewGormRestoreRunRepository creates a new GormRestoreRunRepository
func NewGormRestoreRunRepository(db *gorm.DB) *GormRestoreRunRepository {
	return &GormRestoreRunRepository{db: db}
}

// FindByID finds a restore run by its ID within an account
func (r *GormRestoreRunRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*bulk.RestoreRun, error) {
	var model models.RestoreRunModel
	if err := r.db.WithContext(ctx).
		Scopes(ForAccount(accountID)).Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain()
}

// FindRecent returns the latest runs of an account, newest first
func (r *GormRestoreRunRepository) FindRecent(ctx context.Context, accountID uuid.UUID, limit int) ([]bulk.RestoreRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.RestoreRunModel
	if err := r.db.WithContext(ctx).
		Scopes(ForAccount(accountID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	runs := make([]bulk.RestoreRun, 0, len(rows))
	for i := range rows {
		run, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// Save creates or updates a restore run
func (r *GormRestoreRunRepository) Save(ctx context.Context, run *bulk.RestoreRun) error {
	model, err := models.RestoreRunModelFromDomain(run)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

var _ bulk.RestoreRunRepository = (*GormRestoreRunRepository)(nil)
