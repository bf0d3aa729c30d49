package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const replaceBatchSize = 200

// GormAccountDataRepository implements snapshot.AccountDataRepository using GORM
type GormAccountDataRepository struct {
	db *gorm.DB
}

// NewGormAccountDataRepository creates a new GormAccountDataRepository
func NewGormAccountDataRepository(db *gorm.DB) *GormAccountDataRepository {
	return &GormAccountDataRepository{db: db}
}

// LoadAll reads every collection of an account
func (r *GormAccountDataRepository) LoadAll(ctx context.Context, accountID uuid.UUID) (snapshot.Dataset, error) {
	var (
		data snapshot.Dataset
		err  error
	)
	if data.SimTypes, err = findAll(ctx, r.db, accountID, (*models.SimTypeModel).ToDomain); err != nil {
		return snapshot.Dataset{}, fmt.Errorf("load sim types: %w", err)
	}
	if data.Packages, err = findAll(ctx, r.db, accountID, (*models.SimPackageModel).ToDomain); err != nil {
		return snapshot.Dataset{}, fmt.Errorf("load packages: %w", err)
	}
	if data.Orders, err = findAll(ctx, r.db, accountID, (*models.SaleOrderModel).ToDomain); err != nil {
		return snapshot.Dataset{}, fmt.Errorf("load orders: %w", err)
	}
	if data.Transactions, err = findAll(ctx, r.db, accountID, (*models.TransactionModel).ToDomain); err != nil {
		return snapshot.Dataset{}, fmt.Errorf("load transactions: %w", err)
	}
	if data.Customers, err = findAll(ctx, r.db, accountID, (*models.CustomerModel).ToDomain); err != nil {
		return snapshot.Dataset{}, fmt.Errorf("load customers: %w", err)
	}
	if data.DueDateLogs, err = findAll(ctx, r.db, accountID, (*models.DueDateLogModel).ToDomain); err != nil {
		return snapshot.Dataset{}, fmt.Errorf("load due date logs: %w", err)
	}
	return data, nil
}

// ReplaceAll swaps the account's data for data inside one transaction.
// Children are deleted before parents and parents inserted before children.
// Every record is bound to accountID regardless of what it carried.
func (r *GormAccountDataRepository) ReplaceAll(ctx context.Context, accountID uuid.UUID, data snapshot.Dataset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range []struct {
			entity snapshot.Entity
			model  any
		}{
			{snapshot.EntityDueDateLog, &models.DueDateLogModel{}},
			{snapshot.EntityTransaction, &models.TransactionModel{}},
			{snapshot.EntitySaleOrder, &models.SaleOrderModel{}},
			{snapshot.EntitySimPackage, &models.SimPackageModel{}},
			{snapshot.EntitySimType, &models.SimTypeModel{}},
			{snapshot.EntityCustomer, &models.CustomerModel{}},
		} {
			if err := tx.Scopes(ForAccount(accountID)).Delete(step.model).Error; err != nil {
				return fmt.Errorf("clear %s: %w", step.entity, err)
			}
		}

		now := time.Now()
		stamp := func(m *models.AccountModel, i int) {
			m.AccountID = accountID
			m.Seq = now.UnixNano() + int64(i)
			m.CreatedAt = now
		}

		simTypes := make([]*models.SimTypeModel, len(data.SimTypes))
		for i := range data.SimTypes {
			simTypes[i] = models.SimTypeModelFromDomain(&data.SimTypes[i])
			stamp(&simTypes[i].AccountModel, i)
		}
		if err := insertBatch(tx, snapshot.EntitySimType, simTypes); err != nil {
			return err
		}

		customers := make([]*models.CustomerModel, len(data.Customers))
		for i := range data.Customers {
			customers[i] = models.CustomerModelFromDomain(&data.Customers[i])
			stamp(&customers[i].AccountModel, i)
		}
		if err := insertBatch(tx, snapshot.EntityCustomer, customers); err != nil {
			return err
		}

		packages := make([]*models.SimPackageModel, len(data.Packages))
		for i := range data.Packages {
			packages[i] = models.SimPackageModelFromDomain(&data.Packages[i])
			stamp(&packages[i].AccountModel, i)
		}
		if err := insertBatch(tx, snapshot.EntitySimPackage, packages); err != nil {
			return err
		}

		orders := make([]*models.SaleOrderModel, len(data.Orders))
		for i := range data.Orders {
			orders[i] = models.SaleOrderModelFromDomain(&data.Orders[i])
			stamp(&orders[i].AccountModel, i)
		}
		if err := insertBatch(tx, snapshot.EntitySaleOrder, orders); err != nil {
			return err
		}

		transactions := make([]*models.TransactionModel, len(data.Transactions))
		for i := range data.Transactions {
			transactions[i] = models.TransactionModelFromDomain(&data.Transactions[i])
			stamp(&transactions[i].AccountModel, i)
		}
		if err := insertBatch(tx, snapshot.EntityTransaction, transactions); err != nil {
			return err
		}

		logs := make([]*models.DueDateLogModel, len(data.DueDateLogs))
		for i := range data.DueDateLogs {
			logs[i] = models.DueDateLogModelFromDomain(&data.DueDateLogs[i])
			stamp(&logs[i].AccountModel, i)
		}
		return insertBatch(tx, snapshot.EntityDueDateLog, logs)
	})
}

func insertBatch[M any](tx *gorm.DB, entity snapshot.Entity, rows []*M) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, replaceBatchSize).Error; err != nil {
		return fmt.Errorf("insert %s: %w", entity, translateError(err))
	}
	return nil
}

var _ snapshot.AccountDataRepository = (*GormAccountDataRepository)(nil)
