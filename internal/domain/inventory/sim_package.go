package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/shared"
)

// PurchaseMethod is how a batch was paid for at import time
type PurchaseMethod string

const (
	PurchaseMethodCash     PurchaseMethod = "CASH"
	PurchaseMethodTransfer PurchaseMethod = "TRANSFER"
	PurchaseMethodCredit   PurchaseMethod = "CREDIT" // supplier credit, nothing paid yet
)

// IsValid checks if the purchase method is valid
func (m PurchaseMethod) IsValid() bool {
	switch m {
	case PurchaseMethodCash, PurchaseMethodTransfer, PurchaseMethodCredit:
		return true
	}
	return false
}

// PaysUpfront reports whether importing with this method settles the batch immediately
func (m PurchaseMethod) PaysUpfront() bool {
	return m == PurchaseMethodCash || m == PurchaseMethodTransfer
}

// SimPackage is one purchase lot: Quantity units bought for a lump TotalImportPrice.
// A batch is immutable once created; it can only be deleted.
type SimPackage struct {
	shared.BaseEntity
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	SimTypeID        string          `json:"simTypeId"`
	ImportDate       string          `json:"importDate"`
	Quantity         int64           `json:"quantity"`
	TotalImportPrice decimal.Decimal `json:"totalImportPrice"`
	DueDate          string          `json:"dueDate,omitempty"`
}

// NewSimPackageInput holds the fields needed to register a batch
type NewSimPackageInput struct {
	Code             string
	Name             string
	SimTypeID        string
	ImportDate       string
	Quantity         int64
	TotalImportPrice decimal.Decimal
	DueDate          string
}

// NewSimPackage validates input and creates a batch with a generated code when none is given
func NewSimPackage(accountID uuid.UUID, in NewSimPackageInput, now time.Time) (*SimPackage, error) {
	if strings.TrimSpace(in.SimTypeID) == "" {
		return nil, shared.NewDomainError("INVALID_SIM_TYPE", "Batch must reference a SIM type")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if in.TotalImportPrice.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}
	if err := shared.ValidateDate(in.ImportDate); err != nil {
		return nil, err
	}
	if in.DueDate != "" {
		if err := shared.ValidateDate(in.DueDate); err != nil {
			return nil, err
		}
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = shared.GenerateCode("BATCH", now)
	}

	return &SimPackage{
		BaseEntity:       shared.NewBaseEntity(accountID),
		Code:             code,
		Name:             strings.TrimSpace(in.Name),
		SimTypeID:        in.SimTypeID,
		ImportDate:       in.ImportDate,
		Quantity:         in.Quantity,
		TotalImportPrice: in.TotalImportPrice,
		DueDate:          in.DueDate,
	}, nil
}

// CostPerSim returns the unit cost of the batch, 0 when Quantity is 0
func (p *SimPackage) CostPerSim() decimal.Decimal {
	if p.Quantity == 0 {
		return decimal.Zero
	}
	return p.TotalImportPrice.Div(decimal.NewFromInt(p.Quantity))
}
