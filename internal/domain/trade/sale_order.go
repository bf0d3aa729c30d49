package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/shared"
)

// SaleType distinguishes wholesale agents from walk-in retail buyers
type SaleType string

const (
	SaleTypeWholesale SaleType = "WHOLESALE"
	SaleTypeRetail    SaleType = "RETAIL"
)

// IsValid checks if the sale type is valid
func (t SaleType) IsValid() bool {
	return t == SaleTypeWholesale || t == SaleTypeRetail
}

// Default agent names used when the order carries no explicit buyer
const (
	DefaultWholesaleAgent = "Đại lý"
	DefaultRetailAgent    = "Khách lẻ"
)

// SaleOrder is one sale of Quantity units at unit price SalePrice.
// Cost is attributed per SimType, so SimPackageID is optional.
type SaleOrder struct {
	shared.BaseEntity
	Code           string          `json:"code"`
	Date           string          `json:"date"`
	CustomerID     string          `json:"customerId,omitempty"`
	AgentName      string          `json:"agentName"`
	SaleType       SaleType        `json:"saleType"`
	SimTypeID      string          `json:"simTypeId"`
	SimPackageID   string          `json:"simPackageId,omitempty"`
	Quantity       int64           `json:"quantity"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	DueDate        string          `json:"dueDate"`
	DueDateChanges int             `json:"dueDateChanges"`
	Note           string          `json:"note"`
	IsFinished     bool            `json:"isFinished"`
}

// NewSaleOrderInput holds the fields captured when an order is entered
type NewSaleOrderInput struct {
	Date               string
	SaleType           SaleType
	CustomerID         string
	CustomerName       string
	RetailCustomerInfo string
	SimTypeID          string
	SimPackageID       string
	Quantity           int64
	SalePrice          decimal.Decimal
	DueDate            string
	Note               string
	Paid               bool
}

// NewSaleOrder validates input and builds an order.
// A paid order is due on its own date; an unpaid one must carry a due date.
func NewSaleOrder(accountID uuid.UUID, in NewSaleOrderInput, now time.Time) (*SaleOrder, error) {
	if err := shared.ValidateDate(in.Date); err != nil {
		return nil, err
	}
	if !in.SaleType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SALE_TYPE", "Sale type must be WHOLESALE or RETAIL")
	}
	if strings.TrimSpace(in.SimTypeID) == "" {
		return nil, shared.NewDomainError("INVALID_SIM_TYPE", "Order must reference a SIM type")
	}
	if in.Quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if in.SalePrice.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	dueDate := in.DueDate
	if in.Paid {
		dueDate = in.Date
	} else {
		if dueDate == "" {
			return nil, shared.NewDomainError("DUE_DATE_REQUIRED", "An unpaid order needs a due date")
		}
		if err := shared.ValidateDate(dueDate); err != nil {
			return nil, err
		}
	}

	order := &SaleOrder{
		BaseEntity:   shared.NewBaseEntity(accountID),
		Code:         shared.GenerateCode("SO", now),
		Date:         in.Date,
		SaleType:     in.SaleType,
		SimTypeID:    in.SimTypeID,
		SimPackageID: in.SimPackageID,
		Quantity:     quantity,
		SalePrice:    in.SalePrice,
		DueDate:      dueDate,
		Note:         strings.TrimSpace(in.Note),
		IsFinished:   in.Paid,
	}

	switch in.SaleType {
	case SaleTypeWholesale:
		if in.CustomerID == "" {
			return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "A wholesale order needs a customer")
		}
		order.CustomerID = in.CustomerID
		order.AgentName = firstNonEmpty(in.CustomerName, DefaultWholesaleAgent)
	case SaleTypeRetail:
		order.AgentName = firstNonEmpty(strings.TrimSpace(in.RetailCustomerInfo), DefaultRetailAgent)
	}

	return order, nil
}

// TotalAmount is Quantity x SalePrice
func (o *SaleOrder) TotalAmount() decimal.Decimal {
	return o.SalePrice.Mul(decimal.NewFromInt(o.Quantity))
}

// HasDueDate reports whether a promised payment date is set
func (o *SaleOrder) HasDueDate() bool {
	return o.DueDate != ""
}

// ExtendDueDate moves the due date and returns the log entry that must be
// stored together with the updated order. DueDateChanges only ever grows.
func (o *SaleOrder) ExtendDueDate(newDate, reason string, at time.Time) (*DueDateLog, error) {
	if err := shared.ValidateDate(newDate); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Extending a due date needs a reason")
	}

	log := &DueDateLog{
		BaseEntity: shared.NewBaseEntity(o.AccountID),
		OrderID:    o.ID,
		OldDate:    o.DueDate,
		NewDate:    newDate,
		Reason:     reason,
		UpdatedAt:  at.UTC().Format(time.RFC3339),
	}

	o.DueDate = newDate
	o.DueDateChanges++

	return log, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
