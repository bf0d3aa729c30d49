package finance

import "github.com/shopspring/decimal"

// MethodBalance is IN minus OUT for one payment method
type MethodBalance struct {
	Method  PaymentMethod   `json:"method"`
	CashIn  decimal.Decimal `json:"cashIn"`
	CashOut decimal.Decimal `json:"cashOut"`
	Balance decimal.Decimal `json:"balance"`
}

// Balances summarises the ledger per method and overall
type Balances struct {
	Methods []MethodBalance `json:"methods"`
	CashIn  decimal.Decimal `json:"cashIn"`
	CashOut decimal.Decimal `json:"cashOut"`
	Total   decimal.Decimal `json:"total"`
}

// ComputeBalances folds the ledger into per-method balances.
// Entries with an unknown method only count toward the totals.
func ComputeBalances(txs []Transaction) Balances {
	byMethod := make(map[PaymentMethod]*MethodBalance, len(PaymentMethods))
	result := Balances{
		Methods: make([]MethodBalance, len(PaymentMethods)),
		CashIn:  decimal.Zero,
		CashOut: decimal.Zero,
	}
	for i, m := range PaymentMethods {
		result.Methods[i] = MethodBalance{Method: m, CashIn: decimal.Zero, CashOut: decimal.Zero}
		byMethod[m] = &result.Methods[i]
	}

	for i := range txs {
		tx := &txs[i]
		mb := byMethod[tx.Method]
		switch tx.Type {
		case TransactionTypeIn:
			result.CashIn = result.CashIn.Add(tx.Amount)
			if mb != nil {
				mb.CashIn = mb.CashIn.Add(tx.Amount)
			}
		case TransactionTypeOut:
			result.CashOut = result.CashOut.Add(tx.Amount)
			if mb != nil {
				mb.CashOut = mb.CashOut.Add(tx.Amount)
			}
		}
	}

	for i := range result.Methods {
		result.Methods[i].Balance = result.Methods[i].CashIn.Sub(result.Methods[i].CashOut)
	}
	result.Total = result.CashIn.Sub(result.CashOut)
	return result
}
