package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID within an account
func (r *GormCustomerRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*partner.Customer, error) {
	model, err := findOne[models.CustomerModel](ctx, r.db, accountID, id)
	if err != nil {
		return nil, err
	}
	customer := model.ToDomain()
	return &customer, nil
}

// FindAll returns every customer of an account
func (r *GormCustomerRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]partner.Customer, error) {
	return findAll(ctx, r.db, accountID, (*models.CustomerModel).ToDomain)
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	model.Seq = nextSeq()
	model.CreatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update saves the editable fields of a customer. CID, seq and creation
// time are left as stored.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(ForAccount(customer.AccountID)).Where("id = ?", customer.ID).
		Updates(map[string]any{
			"name":    customer.Name,
			"phone":   customer.Phone,
			"email":   customer.Email,
			"address": customer.Address,
			"type":    customer.Type,
			"note":    customer.Note,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return deleteOne[models.CustomerModel](ctx, r.db, accountID, id)
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
