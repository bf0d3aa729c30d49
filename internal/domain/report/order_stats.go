package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/trade"
)

// UnknownProductName is shown for orders whose SimType no longer exists
const UnknownProductName = "Chưa rõ"

// DebtLevel is the escalation level of an unpaid order
type DebtLevel string

const (
	DebtLevelNormal   DebtLevel = "NORMAL"
	DebtLevelWarning  DebtLevel = "WARNING"
	DebtLevelOverdue  DebtLevel = "OVERDUE"
	DebtLevelRecovery DebtLevel = "RECOVERY"
)

// Severity orders debt levels: NORMAL < WARNING < OVERDUE < RECOVERY
func (l DebtLevel) Severity() int {
	switch l {
	case DebtLevelWarning:
		return 1
	case DebtLevelOverdue:
		return 2
	case DebtLevelRecovery:
		return 3
	default:
		return 0
	}
}

// Escalation thresholds
const (
	RecoveryExtensionLimit = 3  // extensions that force RECOVERY
	RecoveryOverdueDays    = 30 // days past due that force RECOVERY
	WarningWindowDays      = 3  // days before due that raise WARNING
)

// PaymentStatus summarises how much of an order has been collected
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
)

// SaleOrderWithStats is an order with profitability and receivable figures
type SaleOrderWithStats struct {
	trade.SaleOrder
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	CostPerUnit  decimal.Decimal `json:"costPerUnit"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Remaining    decimal.Decimal `json:"remaining"`
	ProductName  string          `json:"productName"`
	CustomerName string          `json:"customerName"`
	DebtLevel    DebtLevel       `json:"debtLevel"`
	Status       PaymentStatus   `json:"status"`
	IsOverdue    bool            `json:"isOverdue"`
	IsBadDebt    bool            `json:"isBadDebt"`
}

// BuildOrderStats derives per-order figures. Every order of a SimType is
// costed at that product's weighted-average cost, whichever batch it came from.
// now is the reference instant in the business time zone, so the result
// depends only on the arguments.
func BuildOrderStats(
	orders []trade.SaleOrder,
	inventoryStats []InventoryProductStat,
	txs []finance.Transaction,
	customers []partner.Customer,
	now time.Time,
) []SaleOrderWithStats {
	products := NewProductIndex(inventoryStats)
	people := NewCustomerIndex(customers)
	paidByOrder := sumTransactions(txs, finance.TransactionTypeIn, func(tx *finance.Transaction) string {
		return tx.SaleOrderID
	})

	stats := make([]SaleOrderWithStats, 0, len(orders))
	for _, o := range orders {
		qty := decimal.NewFromInt(o.Quantity)
		total := o.TotalAmount()

		costPerUnit := decimal.Zero
		productName := UnknownProductName
		if p, ok := products.Lookup(o.SimTypeID); ok {
			costPerUnit = p.WeightedAvgCost
			productName = p.Name
		}

		customerName := o.AgentName
		if c, ok := people.Lookup(o.CustomerID); ok {
			customerName = c.Name
		}

		cost := qty.Mul(costPerUnit)
		paid := orZero(paidByOrder.Lookup(o.ID))
		remaining := clampZero(total.Sub(paid))
		level := ClassifyDebt(remaining, o.DueDate, o.DueDateChanges, now)

		stats = append(stats, SaleOrderWithStats{
			SaleOrder:    o,
			TotalAmount:  total,
			CostPerUnit:  costPerUnit,
			Cost:         cost,
			Profit:       total.Sub(cost),
			PaidAmount:   paid,
			Remaining:    remaining,
			ProductName:  productName,
			CustomerName: customerName,
			DebtLevel:    level,
			Status:       PaymentStatusOf(paid, remaining),
			IsOverdue:    level == DebtLevelOverdue || level == DebtLevelRecovery,
			IsBadDebt:    level == DebtLevelRecovery,
		})
	}
	return stats
}

// ClassifyDebt applies the escalation rules in priority order. Three or more
// extensions mean RECOVERY however far away the due date is. The due date is
// midnight of that day in now's location and the distance from it is rounded
// up to whole days, so an order due today is OVERDUE once the day has begun.
// A missing due date counts as due now. An unreadable due date leaves only the
// extension rule in force.
func ClassifyDebt(remaining decimal.Decimal, dueDate string, dueDateChanges int, now time.Time) DebtLevel {
	if !remaining.IsPositive() {
		return DebtLevelNormal
	}
	if dueDateChanges >= RecoveryExtensionLimit {
		return DebtLevelRecovery
	}

	due := now
	if dueDate != "" {
		parsed, err := shared.ParseDate(dueDate, now.Location())
		if err != nil {
			return DebtLevelNormal
		}
		due = parsed
	}

	diffDays := shared.CeilDays(due, now)
	switch {
	case diffDays > RecoveryOverdueDays:
		return DebtLevelRecovery
	case diffDays > 0:
		return DebtLevelOverdue
	case diffDays > -WarningWindowDays:
		return DebtLevelWarning
	default:
		return DebtLevelNormal
	}
}

// PaymentStatusOf derives PAID / PARTIAL / UNPAID from paid and remaining amounts
func PaymentStatusOf(paid, remaining decimal.Decimal) PaymentStatus {
	switch {
	case !remaining.IsPositive():
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}
