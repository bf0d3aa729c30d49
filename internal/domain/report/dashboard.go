package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/shared"
)

// DecisionCode is a recommendation raised by the dashboard
type DecisionCode string

const (
	DecisionStopImport   DecisionCode = "STOP_IMPORT"
	DecisionCollectDebt  DecisionCode = "COLLECT_DEBT"
	DecisionPaySuppliers DecisionCode = "PAY_SUPPLIERS"
	DecisionSafe         DecisionCode = "SAFE"
)

// Decision is one recommendation with its severity
type Decision struct {
	Code    DecisionCode `json:"code"`
	Level   string       `json:"level"`
	Message string       `json:"message"`
}

// DashboardThresholds are the tunable alert limits
type DashboardThresholds struct {
	Debt7DaysAlert      decimal.Decimal
	PayableAlert        decimal.Decimal
	AgingDays           int
	DueSoonDays         int
	DashboardLowStockAt int64
	TopDebtors          int
}

// DefaultDashboardThresholds returns the limits used by the business
func DefaultDashboardThresholds() DashboardThresholds {
	return DashboardThresholds{
		Debt7DaysAlert:      decimal.NewFromInt(30_000_000),
		PayableAlert:        decimal.NewFromInt(50_000_000),
		AgingDays:           30,
		DueSoonDays:         7,
		DashboardLowStockAt: 50,
		TopDebtors:          5,
	}
}

// DashboardInput bundles the derived views the dashboard reads.
// From and To are inclusive YYYY-MM-DD bounds; empty means unbounded.
type DashboardInput struct {
	Inventory    []InventoryProductStat
	Orders       []SaleOrderWithStats
	Customers    []CustomerWithStats
	Transactions []finance.Transaction
	From         string
	To           string
	Today        time.Time
	Thresholds   DashboardThresholds
}

// DebtorSummary is one entry of the top debtors list
type DebtorSummary struct {
	CustomerID  string          `json:"customerId"`
	Name        string          `json:"name"`
	CurrentDebt decimal.Decimal `json:"currentDebt"`
	CreditScore CreditScore     `json:"creditScore"`
}

// Dashboard is the control-center summary
type Dashboard struct {
	From                string          `json:"from"`
	To                  string          `json:"to"`
	CashIn              decimal.Decimal `json:"cashIn"`
	CashOut             decimal.Decimal `json:"cashOut"`
	WorkingCapital      decimal.Decimal `json:"workingCapital"`
	CashOnHand          decimal.Decimal `json:"cashOnHand"`
	TotalReceivable     decimal.Decimal `json:"totalReceivable"`
	TotalPayable        decimal.Decimal `json:"totalPayable"`
	InventoryValue      decimal.Decimal `json:"inventoryValue"`
	NetCashPosition     decimal.Decimal `json:"netCashPosition"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	NetRevenue          decimal.Decimal `json:"netRevenue"`
	TotalSimQty         int64           `json:"totalSimQty"`
	LowStockCount       int             `json:"lowStockCount"`
	AgingInventoryCount int             `json:"agingInventoryCount"`
	Debt7DaysOrders     []string        `json:"debt7DaysOrders"`
	Debt7DaysAmount     decimal.Decimal `json:"debt7DaysAmount"`
	TopDebtors          []DebtorSummary `json:"topDebtors"`
	Decisions           []Decision      `json:"decisions"`
}

// BuildDashboard computes the control-center metrics. Cash flow, revenue and
// profit honour the date range; receivables, payables and stock are current totals.
func BuildDashboard(in DashboardInput) Dashboard {
	th := in.Thresholds
	today := calendarDay(in.Today)
	todayISO := shared.FormatDate(today)

	d := Dashboard{
		From:            in.From,
		To:              in.To,
		CashIn:          decimal.Zero,
		CashOut:         decimal.Zero,
		CashOnHand:      decimal.Zero,
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
		InventoryValue:  decimal.Zero,
		GrossProfit:     decimal.Zero,
		NetRevenue:      decimal.Zero,
		Debt7DaysOrders: []string{},
		Debt7DaysAmount: decimal.Zero,
	}

	for i := range in.Transactions {
		tx := &in.Transactions[i]
		d.CashOnHand = d.CashOnHand.Add(tx.SignedAmount())
		if !inRange(tx.Date, in.From, in.To) {
			continue
		}
		switch tx.Type {
		case finance.TransactionTypeIn:
			d.CashIn = d.CashIn.Add(tx.Amount)
		case finance.TransactionTypeOut:
			d.CashOut = d.CashOut.Add(tx.Amount)
		}
	}
	d.WorkingCapital = d.CashIn.Sub(d.CashOut)

	agingCutoff := shared.AddDays(todayISO, -th.AgingDays)
	for _, p := range in.Inventory {
		d.InventoryValue = d.InventoryValue.Add(decimal.NewFromInt(p.CurrentStock).Mul(p.WeightedAvgCost))
		d.TotalPayable = d.TotalPayable.Add(p.TotalRemainingPayable)
		d.TotalSimQty += p.CurrentStock
		if p.CurrentStock < th.DashboardLowStockAt {
			d.LowStockCount++
		}
		for _, b := range p.Packages {
			if b.ImportDate < agingCutoff && b.Stock > 0 {
				d.AgingInventoryCount++
				break
			}
		}
	}

	dueSoonLimit := shared.AddDays(todayISO, th.DueSoonDays)
	for _, o := range in.Orders {
		d.TotalReceivable = d.TotalReceivable.Add(o.Remaining)
		if inRange(o.Date, in.From, in.To) {
			d.GrossProfit = d.GrossProfit.Add(o.Profit)
			d.NetRevenue = d.NetRevenue.Add(o.TotalAmount)
		}
		if o.Remaining.IsPositive() && o.DueDate != "" && o.DueDate <= dueSoonLimit {
			d.Debt7DaysOrders = append(d.Debt7DaysOrders, o.ID)
			d.Debt7DaysAmount = d.Debt7DaysAmount.Add(o.Remaining)
		}
	}
	d.NetCashPosition = d.CashOnHand.Add(d.TotalReceivable).Sub(d.TotalPayable)

	d.TopDebtors = topDebtors(in.Customers, th.TopDebtors)
	d.Decisions = decide(d, th)
	return d
}

func decide(d Dashboard, th DashboardThresholds) []Decision {
	var list []Decision
	if d.WorkingCapital.IsNegative() {
		list = append(list, Decision{Code: DecisionStopImport, Level: "CRITICAL", Message: "Vốn lưu động âm. Ưu tiên thu hồi nợ."})
	}
	if d.Debt7DaysAmount.GreaterThan(th.Debt7DaysAlert) {
		list = append(list, Decision{Code: DecisionCollectDebt, Level: "WARNING", Message: "Nợ đến hạn cao trong tuần tới."})
	}
	if d.TotalPayable.GreaterThan(th.PayableAlert) {
		list = append(list, Decision{Code: DecisionPaySuppliers, Level: "WARNING", Message: "Khoản nợ NCC lớn, cần cân đối chi."})
	}
	if len(list) == 0 {
		list = append(list, Decision{Code: DecisionSafe, Level: "SAFE", Message: "Dòng tiền và tồn kho ổn định."})
	}
	return list
}

func topDebtors(customers []CustomerWithStats, limit int) []DebtorSummary {
	out := make([]DebtorSummary, 0)
	for _, c := range customers {
		if c.CurrentDebt.IsPositive() {
			out = append(out, DebtorSummary{CustomerID: c.ID, Name: c.Name, CurrentDebt: c.CurrentDebt, CreditScore: c.CreditScore})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentDebt.GreaterThan(out[j].CurrentDebt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// calendarDay maps t to midnight UTC of its own calendar date so that day
// differences are whole multiples of 24h regardless of time zone and DST.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
