package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/shared"
)

// AccountModel provides the persistence fields shared by every account-owned
// table. The key is (account_id, id) so that restoring one account's backup
// into another never collides.
type AccountModel struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Seq       int64     `gorm:"not null;default:0;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// ToDomain converts AccountModel to domain BaseEntity
func (m *AccountModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, AccountID: m.AccountID}
}

// FromDomainBaseEntity populates AccountModel from domain BaseEntity
func (m *AccountModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.AccountID = e.AccountID
}
