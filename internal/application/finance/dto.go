package finance

import "github.com/shopspring/decimal"

// CreateTransactionRequest represents a request to record a manual cash movement
type CreateTransactionRequest struct {
	Date         string          `json:"date" binding:"required,isodate"`
	Type         string          `json:"type" binding:"required,oneof=IN OUT"`
	Category     string          `json:"category" binding:"max=200"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method" binding:"required,oneof=CASH TRANSFER COD"`
	SaleOrderID  string          `json:"saleOrderId"`
	SimPackageID string          `json:"simPackageId"`
	Note         string          `json:"note" binding:"max=1000"`
}
