package models

import "github.com/simpro/backend/internal/domain/catalog"

// SimTypeModel is the persistence model for the SimType domain entity.
type SimTypeModel struct {
	AccountModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (SimTypeModel) TableName() string {
	return "sim_types"
}

// ToDomain converts the persistence model to a domain SimType entity.
func (m *SimTypeModel) ToDomain() catalog.SimType {
	return catalog.SimType{BaseEntity: m.AccountModel.ToDomain(), Name: m.Name}
}

// FromDomain populates the persistence model from a domain SimType entity.
func (m *SimTypeModel) FromDomain(st *catalog.SimType) {
	m.FromDomainBaseEntity(st.BaseEntity)
	m.Name = st.Name
}

// SimTypeModelFromDomain creates a new persistence model from a domain SimType entity.
func SimTypeModelFromDomain(st *catalog.SimType) *SimTypeModel {
	m := &SimTypeModel{}
	m.FromDomain(st)
	return m
}
