package models

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/trade"
)

// SaleOrderModel is the persistence model for the SaleOrder domain entity.
type SaleOrderModel struct {
	AccountModel
	Code           string          `gorm:"type:varchar(50);not null"`
	Date           string          `gorm:"type:varchar(10);not null;index"`
	CustomerID     string          `gorm:"type:varchar(36);index"`
	AgentName      string          `gorm:"type:varchar(200)"`
	SaleType       trade.SaleType  `gorm:"type:varchar(20);not null;default:'RETAIL'"`
	SimTypeID      string          `gorm:"type:varchar(36);index"`
	SimPackageID   string          `gorm:"type:varchar(36);index"`
	Quantity       int64           `gorm:"not null;default:1"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate        string          `gorm:"type:varchar(10)"`
	DueDateChanges int             `gorm:"not null;default:0"`
	Note           string          `gorm:"type:text"`
	IsFinished     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SaleOrderModel) TableName() string {
	return "sale_orders"
}

// ToDomain converts the persistence model to a domain SaleOrder entity.
func (m *SaleOrderModel) ToDomain() trade.SaleOrder {
	return trade.SaleOrder{
		BaseEntity:     m.AccountModel.ToDomain(),
		Code:           m.Code,
		Date:           m.Date,
		CustomerID:     m.CustomerID,
		AgentName:      m.AgentName,
		SaleType:       m.SaleType,
		SimTypeID:      m.SimTypeID,
		SimPackageID:   m.SimPackageID,
		Quantity:       m.Quantity,
		SalePrice:      m.SalePrice,
		DueDate:        m.DueDate,
		DueDateChanges: m.DueDateChanges,
		Note:           m.Note,
		IsFinished:     m.IsFinished,
	}
}

// FromDomain populates the persistence model from a domain SaleOrder entity.
func (m *SaleOrderModel) FromDomain(o *trade.SaleOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Code = o.Code
	m.Date = o.Date
	m.CustomerID = o.CustomerID
	m.AgentName = o.AgentName
	m.SaleType = o.SaleType
	m.SimTypeID = o.SimTypeID
	m.SimPackageID = o.SimPackageID
	m.Quantity = o.Quantity
	m.SalePrice = o.SalePrice
	m.DueDate = o.DueDate
	m.DueDateChanges = o.DueDateChanges
	m.Note = o.Note
	m.IsFinished = o.IsFinished
}

// SaleOrderModelFromDomain creates a new persistence model from a domain SaleOrder entity.
func SaleOrderModelFromDomain(o *trade.SaleOrder) *SaleOrderModel {
	m := &SaleOrderModel{}
	m.FromDomain(o)
	return m
}

// DueDateLogModel is the persistence model for one due-date extension.
type DueDateLogModel struct {
	AccountModel
	OrderID   string `gorm:"type:varchar(36);not null;index"`
	OldDate   string `gorm:"type:varchar(10)"`
	NewDate   string `gorm:"type:varchar(10);not null"`
	Reason    string `gorm:"type:text;not null"`
	UpdatedAt string `gorm:"column:changed_at;type:varchar(40)"`
}

// TableName returns the table name for GORM
func (DueDateLogModel) TableName() string {
	return "due_date_logs"
}

// ToDomain converts the persistence model to a domain DueDateLog entity.
func (m *DueDateLogModel) ToDomain() trade.DueDateLog {
	return trade.DueDateLog{
		BaseEntity: m.AccountModel.ToDomain(),
		OrderID:    m.OrderID,
		OldDate:    m.OldDate,
		NewDate:    m.NewDate,
		Reason:     m.Reason,
		UpdatedAt:  m.UpdatedAt,
	}
}

// DueDateLogModelFromDomain creates a new persistence model from a domain DueDateLog entity.
func DueDateLogModelFromDomain(l *trade.DueDateLog) *DueDateLogModel {
	m := &DueDateLogModel{
		OrderID:   l.OrderID,
		OldDate:   l.OldDate,
		NewDate:   l.NewDate,
		Reason:    l.Reason,
		UpdatedAt: l.UpdatedAt,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}
