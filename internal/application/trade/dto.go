package trade

import (
	"github.com/shopspring/decimal"

	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/trade"
)

// CreateSaleOrderRequest represents a request to record a sale.
// A paid order is settled on the spot with PaymentMethod; an unpaid one needs DueDate.
type CreateSaleOrderRequest struct {
	Date               string          `json:"date" binding:"required,isodate"`
	SaleType           string          `json:"saleType" binding:"required,oneof=WHOLESALE RETAIL"`
	CustomerID         string          `json:"customerId"`
	RetailCustomerInfo string          `json:"retailCustomerInfo" binding:"max=200"`
	SimTypeID          string          `json:"simTypeId" binding:"required"`
	SimPackageID       string          `json:"simPackageId"`
	Quantity           int64           `json:"quantity" binding:"gte=0"`
	SalePrice          decimal.Decimal `json:"salePrice"`
	DueDate            string          `json:"dueDate" binding:"omitempty,isodate"`
	Note               string          `json:"note" binding:"max=1000"`
	IsPaid             bool            `json:"isPaid"`
	PaymentMethod      string          `json:"paymentMethod" binding:"omitempty,oneof=CASH TRANSFER COD"`
}

// ExtendDueDateRequest represents a request to move an order's due date
type ExtendDueDateRequest struct {
	NewDate string `json:"newDate" binding:"required,isodate"`
	Reason  string `json:"reason" binding:"required,max=500"`
}

// SaleOrderResult is a created order and the receipt written with it, if any.
// Warnings lists dependent writes that failed after the order was stored.
type SaleOrderResult struct {
	Order    *trade.SaleOrder     `json:"order"`
	Receipt  *finance.Transaction `json:"receipt,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// ExtendDueDateResult is the updated order and the appended log entry
type ExtendDueDateResult struct {
	Order *trade.SaleOrder  `json:"order"`
	Log   *trade.DueDateLog `json:"log"`
}
