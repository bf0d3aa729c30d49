package sheetimport

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/domain/trade"
)

const today = "2024-06-01"

func sourceOf(entity snapshot.Entity, headers []string, rows ...[]string) *Source {
	src := newSource()
	src.Sheets[entity] = string(entity)
	for i, values := range rows {
		src.Rows[entity] = append(src.Rows[entity], NewRow(i+1, headers, values))
	}
	return src
}

func TestBuild_Defaults(t *testing.T) {
	src := newSource()
	src.Rows[snapshot.EntitySimType] = []Row{NewRow(1, []string{"note"}, []string{"x"})}
	src.Rows[snapshot.EntitySimPackage] = []Row{NewRow(1, []string{"name"}, []string{"Lô A"})}
	src.Rows[snapshot.EntitySaleOrder] = []Row{NewRow(1, []string{"note"}, []string{"n"})}
	src.Rows[snapshot.EntityTransaction] = []Row{NewRow(1, []string{"type", "method"}, []string{"chi", "bitcoin"})}
	src.Rows[snapshot.EntityCustomer] = []Row{NewRow(1, []string{"type"}, []string{"wholesale"})}

	res := Build(src, today)
	data := res.Data

	require.Len(t, data.SimTypes, 1)
	assert.Equal(t, DefaultSimTypeName, data.SimTypes[0].Name)
	_, err := uuid.Parse(data.SimTypes[0].ID)
	assert.NoError(t, err)

	pkg := data.Packages[0]
	assert.Equal(t, "BATCH-"+pkg.ID, pkg.Code)
	assert.Equal(t, today, pkg.ImportDate)
	assert.Equal(t, int64(0), pkg.Quantity)
	assert.True(t, pkg.TotalImportPrice.IsZero())

	order := data.Orders[0]
	assert.Equal(t, "SO-"+order.ID, order.Code)
	assert.Equal(t, today, order.Date)
	assert.Equal(t, DefaultAgentName, order.AgentName)
	assert.Equal(t, trade.SaleTypeRetail, order.SaleType)
	assert.Equal(t, int64(1), order.Quantity)
	assert.False(t, order.IsFinished)
	assert.Empty(t, order.DueDate)

	tx := data.Transactions[0]
	assert.Equal(t, finance.TransactionTypeIn, tx.Type)
	assert.Equal(t, finance.PaymentMethodTransfer, tx.Method)
	assert.Equal(t, "TX-"+tx.ID, tx.Code)

	c := data.Customers[0]
	assert.Equal(t, DefaultCustomerName, c.Name)
	assert.Equal(t, partner.CustomerTypeWholesale, c.Type)
	assert.Equal(t, "KH-"+c.ID, c.CID)

	assert.True(t, res.Warnings.Empty())
}

func TestBuild_VietnameseHeadersAndCoercion(t *testing.T) {
	src := sourceOf(snapshot.EntitySaleOrder,
		[]string{"Mã đơn", "ngày bán", "Khách hàng", "SaleType", "SL", "Giá bán", "Hạn trả", "Đã thanh toán"},
		[]string{"SO-1", "10/05/2024", "Đại lý Minh", "wholesale", "20.7", "1,200,000", "45455", "x"},
	)

	res := Build(src, today)
	require.Len(t, res.Data.Orders, 1)
	o := res.Data.Orders[0]
	assert.Equal(t, "SO-1", o.Code)
	assert.Equal(t, "2024-05-10", o.Date)
	assert.Equal(t, "Đại lý Minh", o.AgentName)
	assert.Equal(t, trade.SaleTypeWholesale, o.SaleType)
	assert.Equal(t, int64(20), o.Quantity)
	assert.Equal(t, "1200000", o.SalePrice.String())
	assert.Equal(t, "2024-06-12", o.DueDate)
	assert.True(t, o.IsFinished)
}

func TestBuild_InvalidCellsWarnAndDefault(t *testing.T) {
	src := sourceOf(snapshot.EntitySimPackage,
		[]string{"code", "quantity", "totalImportPrice", "importDate"},
		[]string{"B1", "nhiều", "??", "sometime"},
	)

	res := Build(src, today)
	p := res.Data.Packages[0]
	assert.Equal(t, int64(0), p.Quantity)
	assert.True(t, p.TotalImportPrice.IsZero())
	assert.Equal(t, today, p.ImportDate)

	assert.Equal(t, 3, res.Warnings.Total())
	summary := res.Warnings.ByCode()
	assert.Equal(t, 2, summary[WarnInvalidNumber])
	assert.Equal(t, 1, summary[WarnInvalidDate])
	assert.Equal(t, 1, res.Warnings.List()[0].Row)
}

func TestBuild_RemapsLegacyIDs(t *testing.T) {
	src := newSource()
	src.Rows[snapshot.EntitySimType] = []Row{NewRow(1, []string{"id", "name"}, []string{"1715000000000", "Viettel"})}
	src.Rows[snapshot.EntitySaleOrder] = []Row{NewRow(1, []string{"id", "simTypeId"}, []string{"o-1", "1715000000000"})}

	res := Build(src, today)
	assert.Equal(t, 2, res.Remapped)
	assert.Equal(t, res.Data.SimTypes[0].ID, res.Data.Orders[0].SimTypeID)
}

func TestBuild_FreeTextKeepsSpacing(t *testing.T) {
	custID := uuid.NewString()
	src := sourceOf(snapshot.EntitySaleOrder,
		[]string{"id", "code", "customerId", "saleType", "agentName", "quantity", "salePrice", "dueDate", "note"},
		[]string{" o1 ", " SO-7 ", " " + custID + " ", " WHOLESALE ", " Đại lý Minh", " 12 ", " 80,000 ", " 2024-06-20 ", "  giao trước"},
	)

	res := Build(src, today)
	assert.True(t, res.Warnings.Empty(), res.Warnings.String())
	require.Len(t, res.Data.Orders, 1)
	o := res.Data.Orders[0]
	assert.Equal(t, "  giao trước", o.Note)
	assert.Equal(t, " Đại lý Minh", o.AgentName)

	assert.Equal(t, "SO-7", o.Code)
	assert.Equal(t, custID, o.CustomerID)
	assert.Equal(t, trade.SaleTypeWholesale, o.SaleType)
	assert.Equal(t, int64(12), o.Quantity)
	assert.Equal(t, "80000", o.SalePrice.String())
	assert.Equal(t, "2024-06-20", o.DueDate)
	_, err := uuid.Parse(o.ID)
	assert.NoError(t, err, "legacy id is re-keyed after trimming")
	assert.Equal(t, 1, res.Remapped)
}
