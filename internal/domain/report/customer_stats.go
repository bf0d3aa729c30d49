package report

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/partner"
)

// CreditScore grades a customer's payment reliability, A best and D worst
type CreditScore string

const (
	CreditScoreA CreditScore = "A"
	CreditScoreB CreditScore = "B"
	CreditScoreC CreditScore = "C"
	CreditScoreD CreditScore = "D"
)

// CreditScoreMinOrders is the order count a customer must exceed to earn an A
const CreditScoreMinOrders = 5

// CustomerWithStats is a customer with figures folded from their orders
type CustomerWithStats struct {
	partner.Customer
	OrderCount     int             `json:"orderCount"`
	GMV            decimal.Decimal `json:"gmv"`
	CurrentDebt    decimal.Decimal `json:"currentDebt"`
	NextDueDate    *string         `json:"nextDueDate"`
	WorstDebtLevel DebtLevel       `json:"worstDebtLevel"`
	CreditScore    CreditScore     `json:"creditScore"`
}

// BuildCustomerStats folds order stats per customer, in customer input order
func BuildCustomerStats(customers []partner.Customer, orderStats []SaleOrderWithStats) []CustomerWithStats {
	byCustomer := make(map[string][]*SaleOrderWithStats)
	for i := range orderStats {
		o := &orderStats[i]
		if o.CustomerID == "" {
			continue
		}
		byCustomer[o.CustomerID] = append(byCustomer[o.CustomerID], o)
	}

	stats := make([]CustomerWithStats, 0, len(customers))
	for _, c := range customers {
		orders := byCustomer[c.ID]

		gmv := decimal.Zero
		debt := decimal.Zero
		worst := DebtLevelNormal
		allPaid := true
		var nextDue *string
		for _, o := range orders {
			gmv = gmv.Add(o.TotalAmount)
			debt = debt.Add(o.Remaining)
			if o.DebtLevel.Severity() > worst.Severity() {
				worst = o.DebtLevel
			}
			if o.Status != PaymentStatusPaid {
				allPaid = false
			}
			if o.Remaining.IsPositive() && o.DueDate != "" {
				if nextDue == nil || o.DueDate < *nextDue {
					d := o.DueDate
					nextDue = &d
				}
			}
		}

		stats = append(stats, CustomerWithStats{
			Customer:       c,
			OrderCount:     len(orders),
			GMV:            gmv,
			CurrentDebt:    debt,
			NextDueDate:    nextDue,
			WorstDebtLevel: worst,
			CreditScore:    ScoreCredit(worst, len(orders), allPaid),
		})
	}
	return stats
}

// ScoreCredit grades a customer. A needs both volume (more than five orders)
// and a clean record, so a new customer with no problems still gets B.
func ScoreCredit(worst DebtLevel, orderCount int, allPaid bool) CreditScore {
	switch worst {
	case DebtLevelRecovery:
		return CreditScoreD
	case DebtLevelOverdue:
		return CreditScoreC
	case DebtLevelWarning:
		return CreditScoreB
	}
	if orderCount > CreditScoreMinOrders && allPaid {
		return CreditScoreA
	}
	return CreditScoreB
}
