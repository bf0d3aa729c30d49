package models

import "github.com/simpro/backend/internal/domain/partner"

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AccountModel
	CID     string               `gorm:"column:cid;type:varchar(50);not null;index"`
	Name    string               `gorm:"type:varchar(200);not null"`
	Phone   string               `gorm:"type:varchar(50)"`
	Email   string               `gorm:"type:varchar(200)"`
	Address string               `gorm:"type:text"`
	Type    partner.CustomerType `gorm:"type:varchar(20);not null;default:'WHOLESALE'"`
	Note    string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() partner.Customer {
	return partner.Customer{
		BaseEntity: m.AccountModel.ToDomain(),
		CID:        m.CID,
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		Address:    m.Address,
		Type:       m.Type,
		Note:       m.Note,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CID = c.CID
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.Type = c.Type
	m.Note = c.Note
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
