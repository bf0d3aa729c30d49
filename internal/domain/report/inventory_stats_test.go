package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInventoryStats_BatchFigures(t *testing.T) {
	stats := BuildInventoryStats(
		[]catalog.SimType{simType("t1", "Viettel")},
		[]inventory.SimPackage{
			batch("b1", "t1", 100, 1_000_000, "2024-04-01"),
			batch("b2", "t1", 20, 300_000, "2024-04-10"),
			batch("b3", "t1", 5, 50_000, "2024-04-15"),
		},
		[]trade.SaleOrder{
			order("o1", "t1", "b1", 30, 15_000),
			order("o2", "t1", "b2", 15, 15_000),
			order("o3", "t1", "", 10, 15_000),
		},
		[]finance.Transaction{
			cashOut("b1", 400_000),
			cashOut("b2", 500_000),
			cashIn("o1", 999), // IN entries never settle batches
		},
	)

	require.Len(t, stats, 1)
	product := stats[0]
	require.Len(t, product.Packages, 3)

	b1, b2, b3 := product.Packages[0], product.Packages[1], product.Packages[2]

	assert.Equal(t, int64(30), b1.Sold)
	assert.Equal(t, int64(70), b1.Stock)
	assert.Equal(t, StockStatusOK, b1.Status)
	assert.True(t, dec(10_000).Equal(b1.CostPerSim))
	assert.True(t, dec(400_000).Equal(b1.PaidAmount))
	assert.True(t, dec(600_000).Equal(b1.RemainingPayable))

	assert.Equal(t, int64(5), b2.Stock)
	assert.Equal(t, StockStatusLow, b2.Status)
	assert.True(t, b2.RemainingPayable.IsZero(), "overpayment clamps to zero")

	assert.Equal(t, int64(0), b3.Sold, "unreferenced batch has nothing sold")
	assert.Equal(t, int64(5), b3.Stock)
	assert.True(t, b3.PaidAmount.IsZero())
	assert.True(t, dec(50_000).Equal(b3.RemainingPayable))
}

func TestBuildInventoryStats_ProductFigures(t *testing.T) {
	stats := BuildInventoryStats(
		[]catalog.SimType{simType("t1", "Viettel"), simType("t2", "Mobi")},
		[]inventory.SimPackage{
			batch("b1", "t1", 100, 1_000_000, "2024-04-01"),
			batch("b2", "t1", 50, 600_000, "2024-04-02"),
		},
		[]trade.SaleOrder{
			order("o1", "t1", "b1", 40, 15_000),
			order("o2", "t1", "", 20, 15_000),
			order("o3", "t2", "", 3, 15_000),
		},
		[]finance.Transaction{cashOut("b1", 1_000_000)},
	)
	require.Len(t, stats, 2)

	viettel := stats[0]
	assert.Equal(t, "Viettel", viettel.Name)
	assert.Equal(t, int64(150), viettel.TotalImported)
	assert.True(t, dec(1_600_000).Equal(viettel.TotalCost))
	assert.True(t, dec(1_600_000).Equal(viettel.TotalPayable))
	assert.Equal(t, int64(60), viettel.TotalSold, "product sales include orders without a batch")
	assert.Equal(t, int64(90), viettel.CurrentStock)
	assert.Equal(t, StockStatusOK, viettel.Status)
	assert.True(t, dec(600_000).Equal(viettel.TotalRemainingPayable))
	assert.Equal(t, "10666.67", viettel.WeightedAvgCost.StringFixed(2))

	mobi := stats[1]
	assert.Empty(t, mobi.Packages)
	assert.NotNil(t, mobi.Packages)
	assert.Equal(t, int64(0), mobi.TotalImported)
	assert.True(t, mobi.WeightedAvgCost.IsZero(), "no imports means zero cost, not a division error")
	assert.Equal(t, int64(-3), mobi.CurrentStock, "negative stock is reported as is")
	assert.Equal(t, StockStatusLow, mobi.Status)
}

func TestBuildInventoryStats_Thresholds(t *testing.T) {
	tests := []struct {
		name          string
		qty           int64
		sold          int64
		batchStatus   StockStatus
		productStatus StockStatus
	}{
		{"batch at 10 is ok", 10, 0, StockStatusOK, StockStatusLow},
		{"batch at 9 is low", 10, 1, StockStatusLow, StockStatusLow},
		{"product at 50 is low", 60, 10, StockStatusOK, StockStatusLow},
		{"product at 51 is ok", 61, 10, StockStatusOK, StockStatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := BuildInventoryStats(
				[]catalog.SimType{simType("t", "T")},
				[]inventory.SimPackage{batch("b", "t", tt.qty, 100, "2024-01-01")},
				[]trade.SaleOrder{order("o", "t", "b", tt.sold, 1)},
				nil,
			)
			require.Len(t, stats, 1)
			assert.Equal(t, tt.batchStatus, stats[0].Packages[0].Status)
			assert.Equal(t, tt.productStatus, stats[0].Status)
		})
	}
}

func TestBuildInventoryStats_ZeroQuantityBatch(t *testing.T) {
	stats := BuildInventoryStats(
		[]catalog.SimType{simType("t", "T")},
		[]inventory.SimPackage{batch("b", "t", 0, 500, "2024-01-01")},
		nil, nil,
	)
	require.Len(t, stats, 1)
	assert.True(t, stats[0].Packages[0].CostPerSim.IsZero())
	assert.True(t, stats[0].WeightedAvgCost.IsZero())
	assert.True(t, decimal.NewFromInt(500).Equal(stats[0].TotalRemainingPayable))
}
