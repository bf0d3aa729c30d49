package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
)

// CreateSimPackageRequest represents a request to register a purchase batch.
// PaymentMethod CREDIT leaves the batch payable; CASH and TRANSFER pay it at once.
type CreateSimPackageRequest struct {
	Code             string          `json:"code" binding:"max=50"`
	Name             string          `json:"name" binding:"max=200"`
	SimTypeID        string          `json:"simTypeId" binding:"required"`
	ImportDate       string          `json:"importDate" binding:"required,isodate"`
	Quantity         int64           `json:"quantity" binding:"required,gt=0"`
	TotalImportPrice decimal.Decimal `json:"totalImportPrice"`
	DueDate          string          `json:"dueDate" binding:"omitempty,isodate"`
	PaymentMethod    string          `json:"paymentMethod" binding:"omitempty,oneof=CASH TRANSFER CREDIT"`
}

// SimPackageResult is a created batch and the payment written with it, if any.
// Warnings lists dependent writes that failed after the batch was stored.
type SimPackageResult struct {
	Package  *inventory.SimPackage `json:"package"`
	Payment  *finance.Transaction  `json:"payment,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`
}
