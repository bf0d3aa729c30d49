package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/shared"
)

// SimType is a product category. Stock levels and weighted-average cost
// are computed per SimType across all of its batches.
type SimType struct {
	shared.BaseEntity
	Name string `json:"name"`
}

// NewSimType creates a new SimType
func NewSimType(accountID uuid.UUID, name string) (*SimType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "SIM type name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "SIM type name cannot exceed 200 characters")
	}
	return &SimType{
		BaseEntity: shared.NewBaseEntity(accountID),
		Name:       name,
	}, nil
}
