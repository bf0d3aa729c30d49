package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/shared"
)

// TransactionType is the direction of a cash movement
type TransactionType string

const (
	TransactionTypeIn  TransactionType = "IN"
	TransactionTypeOut TransactionType = "OUT"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIn || t == TransactionTypeOut
}

// PaymentMethod is the channel the cash moved through
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCOD      PaymentMethod = "COD"
)

// PaymentMethods lists every method in display order
var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCOD}

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCOD:
		return true
	}
	return false
}

// Categories written by the automatic ledger entries
const (
	CategorySimPurchase    = "Chi nhập SIM"
	CategoryWholesaleSales = "Thu bán sỉ"
	CategoryRetailSales    = "Thu bán lẻ"
)

// Transaction is one single-entry cash ledger line. Amount is never negative;
// the direction lives in Type. IN lines may settle a SaleOrder, OUT lines a SimPackage.
type Transaction struct {
	shared.BaseEntity
	Code         string          `json:"code"`
	Date         string          `json:"date"`
	Type         TransactionType `json:"type"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Method       PaymentMethod   `json:"method"`
	SaleOrderID  string          `json:"saleOrderId,omitempty"`
	SimPackageID string          `json:"simPackageId,omitempty"`
	Note         string          `json:"note"`
}

// NewTransactionInput holds the fields of a manual ledger entry
type NewTransactionInput struct {
	Date         string
	Type         TransactionType
	Category     string
	Amount       decimal.Decimal
	Method       PaymentMethod
	SaleOrderID  string
	SimPackageID string
	Note         string
}

// NewTransaction validates input and creates a ledger entry with a generated code
func NewTransaction(accountID uuid.UUID, in NewTransactionInput, now time.Time) (*Transaction, error) {
	if err := shared.ValidateDate(in.Date); err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be IN or OUT")
	}
	if !in.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH, TRANSFER or COD")
	}
	if in.Amount.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	return &Transaction{
		BaseEntity:   shared.NewBaseEntity(accountID),
		Code:         shared.GenerateCode("TX", now),
		Date:         in.Date,
		Type:         in.Type,
		Category:     strings.TrimSpace(in.Category),
		Amount:       in.Amount,
		Method:       in.Method,
		SaleOrderID:  in.SaleOrderID,
		SimPackageID: in.SimPackageID,
		Note:         strings.TrimSpace(in.Note),
	}, nil
}

// NewBatchPayment builds the OUT entry written when a batch is paid at import time
func NewBatchPayment(accountID uuid.UUID, packageID, packageCode, importDate string, amount decimal.Decimal, method PaymentMethod, now time.Time) (*Transaction, error) {
	return NewTransaction(accountID, NewTransactionInput{
		Date:         importDate,
		Type:         TransactionTypeOut,
		Category:     CategorySimPurchase,
		Amount:       amount,
		Method:       method,
		SimPackageID: packageID,
		Note:         "Tự động chi lô " + packageCode,
	}, now)
}

// NewOrderReceipt builds the IN entry written when an order is paid on creation
func NewOrderReceipt(accountID uuid.UUID, orderID, orderCode, date string, wholesale bool, amount decimal.Decimal, method PaymentMethod, now time.Time) (*Transaction, error) {
	category := CategoryRetailSales
	if wholesale {
		category = CategoryWholesaleSales
	}
	return NewTransaction(accountID, NewTransactionInput{
		Date:        date,
		Type:        TransactionTypeIn,
		Category:    category,
		Amount:      amount,
		Method:      method,
		SaleOrderID: orderID,
		Note:        "Thu đơn " + orderCode,
	}, now)
}

// SignedAmount returns Amount for IN entries and -Amount for OUT entries
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeOut {
		return t.Amount.Neg()
	}
	return t.Amount
}
