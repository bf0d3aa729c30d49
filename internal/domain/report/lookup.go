package report

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/partner"
)

// ProductIndex resolves product statistics by SimType id.
// A miss is reported through the boolean, never through a zero value.
type ProductIndex map[string]*InventoryProductStat

// NewProductIndex indexes stats by id. The first entry wins on duplicate ids.
func NewProductIndex(stats []InventoryProductStat) ProductIndex {
	idx := make(ProductIndex, len(stats))
	for i := range stats {
		if _, exists := idx[stats[i].ID]; !exists {
			idx[stats[i].ID] = &stats[i]
		}
	}
	return idx
}

// Lookup returns the product stats for id
func (ix ProductIndex) Lookup(id string) (*InventoryProductStat, bool) {
	p, ok := ix[id]
	return p, ok
}

// CustomerIndex resolves customers by id
type CustomerIndex map[string]*partner.Customer

// NewCustomerIndex indexes customers by id. The first entry wins on duplicate ids.
func NewCustomerIndex(customers []partner.Customer) CustomerIndex {
	idx := make(CustomerIndex, len(customers))
	for i := range customers {
		if _, exists := idx[customers[i].ID]; !exists {
			idx[customers[i].ID] = &customers[i]
		}
	}
	return idx
}

// Lookup returns the customer for id; an empty id never matches
func (ix CustomerIndex) Lookup(id string) (*partner.Customer, bool) {
	if id == "" {
		return nil, false
	}
	c, ok := ix[id]
	return c, ok
}

// AmountLedger holds per-reference sums of ledger amounts
type AmountLedger map[string]decimal.Decimal

// Lookup returns the summed amount for ref
func (l AmountLedger) Lookup(ref string) (decimal.Decimal, bool) {
	if ref == "" {
		return decimal.Zero, false
	}
	v, ok := l[ref]
	return v, ok
}

// sumTransactions totals amounts of entries with the given type, keyed by ref(tx)
func sumTransactions(txs []finance.Transaction, typ finance.TransactionType, ref func(*finance.Transaction) string) AmountLedger {
	out := make(AmountLedger)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != typ {
			continue
		}
		key := ref(tx)
		if key == "" {
			continue
		}
		out[key] = out[key].Add(tx.Amount)
	}
	return out
}

// orZero substitutes zero for a missing amount
func orZero(v decimal.Decimal, ok bool) decimal.Decimal {
	if !ok {
		return decimal.Zero
	}
	return v
}

// clampZero returns v or zero when v is negative
func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// safeDiv returns num/den, or zero when den is zero
func safeDiv(num decimal.Decimal, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return num.Div(decimal.NewFromInt(den))
}
