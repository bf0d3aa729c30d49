package report

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/trade"
)

// StockStatus flags low stock
type StockStatus string

const (
	StockStatusOK  StockStatus = "OK"
	StockStatusLow StockStatus = "LOW_STOCK"
)

// A single batch can run low while the product as a whole is healthy,
// so the two levels use different thresholds.
const (
	BatchLowStockThreshold   = 10 // batch is low when Stock < 10
	ProductLowStockThreshold = 50 // product is low when CurrentStock <= 50
)

// SimPackageWithStats is a batch with its derived stock and payable figures
type SimPackageWithStats struct {
	inventory.SimPackage
	Sold             int64           `json:"sold"`
	Stock            int64           `json:"stock"`
	CostPerSim       decimal.Decimal `json:"costPerSim"`
	Status           StockStatus     `json:"status"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	RemainingPayable decimal.Decimal `json:"remainingPayable"`
}

// InventoryProductStat aggregates all batches of one SimType
type InventoryProductStat struct {
	catalog.SimType
	Packages              []SimPackageWithStats `json:"packages"`
	TotalImported         int64                 `json:"totalImported"`
	TotalCost             decimal.Decimal       `json:"totalCost"`
	WeightedAvgCost       decimal.Decimal       `json:"weightedAvgCost"`
	TotalSold             int64                 `json:"totalSold"`
	CurrentStock          int64                 `json:"currentStock"`
	Status                StockStatus           `json:"status"`
	TotalPayable          decimal.Decimal       `json:"totalPayable"`
	TotalRemainingPayable decimal.Decimal       `json:"totalRemainingPayable"`
}

// BuildInventoryStats folds batches, orders and OUT transactions into one
// entry per SimType. Output order follows simTypes, and each product's
// batches keep their input order. The function has no side effects.
//
// Batch-level Sold only counts orders linked to that batch, while product
// TotalSold counts every order of the SimType. The two views legitimately differ.
func BuildInventoryStats(
	simTypes []catalog.SimType,
	packages []inventory.SimPackage,
	orders []trade.SaleOrder,
	txs []finance.Transaction,
) []InventoryProductStat {
	soldByPackage := make(map[string]int64)
	soldByType := make(map[string]int64)
	for i := range orders {
		o := &orders[i]
		if o.SimPackageID != "" {
			soldByPackage[o.SimPackageID] += o.Quantity
		}
		soldByType[o.SimTypeID] += o.Quantity
	}
	paidByPackage := sumTransactions(txs, finance.TransactionTypeOut, func(tx *finance.Transaction) string {
		return tx.SimPackageID
	})

	packagesByType := make(map[string][]SimPackageWithStats)
	for i := range packages {
		p := packages[i]
		sold := soldByPackage[p.ID]
		stock := p.Quantity - sold
		paid := orZero(paidByPackage.Lookup(p.ID))

		status := StockStatusOK
		if stock < BatchLowStockThreshold {
			status = StockStatusLow
		}

		packagesByType[p.SimTypeID] = append(packagesByType[p.SimTypeID], SimPackageWithStats{
			SimPackage:       p,
			Sold:             sold,
			Stock:            stock,
			CostPerSim:       safeDiv(p.TotalImportPrice, p.Quantity),
			Status:           status,
			PaidAmount:       paid,
			RemainingPayable: clampZero(p.TotalImportPrice.Sub(paid)),
		})
	}

	stats := make([]InventoryProductStat, 0, len(simTypes))
	for _, st := range simTypes {
		batches := packagesByType[st.ID]
		if batches == nil {
			batches = []SimPackageWithStats{}
		}

		var totalImported int64
		totalCost := decimal.Zero
		totalRemaining := decimal.Zero
		for _, b := range batches {
			totalImported += b.Quantity
			totalCost = totalCost.Add(b.TotalImportPrice)
			totalRemaining = totalRemaining.Add(b.RemainingPayable)
		}

		totalSold := soldByType[st.ID]
		currentStock := totalImported - totalSold
		status := StockStatusOK
		if currentStock <= ProductLowStockThreshold {
			status = StockStatusLow
		}

		stats = append(stats, InventoryProductStat{
			SimType:               st,
			Packages:              batches,
			TotalImported:         totalImported,
			TotalCost:             totalCost,
			WeightedAvgCost:       safeDiv(totalCost, totalImported),
			TotalSold:             totalSold,
			CurrentStock:          currentStock,
			Status:                status,
			TotalPayable:          totalCost,
			TotalRemainingPayable: totalRemaining,
		})
	}
	return stats
}
