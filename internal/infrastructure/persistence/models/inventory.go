package models

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/inventory"
)

// SimPackageModel is the persistence model for a purchased SIM batch.
// SimTypeID carries no foreign key: deleting a type orphans its batches.
type SimPackageModel struct {
	AccountModel
	Code             string          `gorm:"type:varchar(50);not null"`
	Name             string          `gorm:"type:varchar(200)"`
	SimTypeID        string          `gorm:"type:varchar(36);index"`
	ImportDate       string          `gorm:"type:varchar(10);not null"`
	Quantity         int64           `gorm:"not null;default:0"`
	TotalImportPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate          string          `gorm:"type:varchar(10)"`
}

// TableName returns the table name for GORM
func (SimPackageModel) TableName() string {
	return "sim_packages"
}

// ToDomain converts the persistence model to a domain SimPackage entity.
func (m *SimPackageModel) ToDomain() inventory.SimPackage {
	return inventory.SimPackage{
		BaseEntity:       m.AccountModel.ToDomain(),
		Code:             m.Code,
		Name:             m.Name,
		SimTypeID:        m.SimTypeID,
		ImportDate:       m.ImportDate,
		Quantity:         m.Quantity,
		TotalImportPrice: m.TotalImportPrice,
		DueDate:          m.DueDate,
	}
}

// FromDomain populates the persistence model from a domain SimPackage entity.
func (m *SimPackageModel) FromDomain(p *inventory.SimPackage) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.SimTypeID = p.SimTypeID
	m.ImportDate = p.ImportDate
	m.Quantity = p.Quantity
	m.TotalImportPrice = p.TotalImportPrice
	m.DueDate = p.DueDate
}

// SimPackageModelFromDomain creates a new persistence model from a domain SimPackage entity.
func SimPackageModelFromDomain(p *inventory.SimPackage) *SimPackageModel {
	m := &SimPackageModel{}
	m.FromDomain(p)
	return m
}
