package models

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/finance"
)

// TransactionModel is the persistence model for one cash ledger entry.
type TransactionModel struct {
	AccountModel
	Code         string                  `gorm:"type:varchar(50);not null"`
	Date         string                  `gorm:"type:varchar(10);not null;index"`
	Type         finance.TransactionType `gorm:"type:varchar(10);not null"`
	Category     string                  `gorm:"type:varchar(100)"`
	Amount       decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Method       finance.PaymentMethod   `gorm:"type:varchar(20);not null;default:'TRANSFER'"`
	SaleOrderID  string                  `gorm:"type:varchar(36);index"`
	SimPackageID string                  `gorm:"type:varchar(36);index"`
	Note         string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() finance.Transaction {
	return finance.Transaction{
		BaseEntity:   m.AccountModel.ToDomain(),
		Code:         m.Code,
		Date:         m.Date,
		Type:         m.Type,
		Category:     m.Category,
		Amount:       m.Amount,
		Method:       m.Method,
		SaleOrderID:  m.SaleOrderID,
		SimPackageID: m.SimPackageID,
		Note:         m.Note,
	}
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *finance.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Code = t.Code
	m.Date = t.Date
	m.Type = t.Type
	m.Category = t.Category
	m.Amount = t.Amount
	m.Method = t.Method
	m.SaleOrderID = t.SaleOrderID
	m.SimPackageID = t.SimPackageID
	m.Note = t.Note
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
