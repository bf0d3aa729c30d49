package shared

import (
	"github.com/google/uuid"
)

// Entity is the base interface for all account-owned records
type Entity interface {
	GetID() string
	GetAccountID() uuid.UUID
	SetAccountID(accountID uuid.UUID)
}

// BaseEntity provides the identity fields every record carries.
// ID is a string because imported records may arrive with legacy ids
// that are only re-keyed to UUIDs right before they are stored.
type BaseEntity struct {
	ID        string    `json:"id"`
	AccountID uuid.UUID `json:"-"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() string {
	return e.ID
}

// GetAccountID returns the owning account
func (e *BaseEntity) GetAccountID() uuid.UUID {
	return e.AccountID
}

// SetAccountID binds the record to an account
func (e *BaseEntity) SetAccountID(accountID uuid.UUID) {
	e.AccountID = accountID
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity(accountID uuid.UUID) BaseEntity {
	return BaseEntity{
		ID:        NewID(),
		AccountID: accountID,
	}
}

// NewID returns a fresh globally unique identifier in canonical form
func NewID() string {
	return uuid.New().String()
}

// IsValidID reports whether id is already a canonical UUID and can be stored as is
func IsValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
