package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func retailInput() NewSaleOrderInput {
	return NewSaleOrderInput{
		Date:      "2024-05-10",
		SaleType:  SaleTypeRetail,
		SimTypeID: uuid.New().String(),
		Quantity:  2,
		SalePrice: decimal.NewFromInt(50_000),
		DueDate:   "2024-05-20",
	}
}

func TestNewSaleOrder(t *testing.T) {
	accountID := uuid.New()

	t.Run("paid order is due on its own date", func(t *testing.T) {
		in := retailInput()
		in.Paid = true
		in.DueDate = ""
		order, err := NewSaleOrder(accountID, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-10", order.DueDate)
		assert.True(t, order.IsFinished)
		assert.Regexp(t, `^SO-240510-`, order.Code)
	})

	t.Run("unpaid order requires due date", func(t *testing.T) {
		in := retailInput()
		in.DueDate = ""
		_, err := NewSaleOrder(accountID, in, testNow)
		require.Error(t, err)
		de, _ := shared.AsDomainError(err)
		assert.Equal(t, "DUE_DATE_REQUIRED", de.Code)
	})

	t.Run("retail order uses walk-in name and drops customer", func(t *testing.T) {
		in := retailInput()
		in.CustomerID = uuid.New().String()
		order, err := NewSaleOrder(accountID, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, DefaultRetailAgent, order.AgentName)
		assert.Empty(t, order.CustomerID)

		in.RetailCustomerInfo = "Anh Nam 0909"
		order, err = NewSaleOrder(accountID, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, "Anh Nam 0909", order.AgentName)
	})

	t.Run("wholesale order takes customer name", func(t *testing.T) {
		in := retailInput()
		in.SaleType = SaleTypeWholesale
		in.CustomerID = uuid.New().String()
		in.CustomerName = "Đại lý Minh Phát"
		order, err := NewSaleOrder(accountID, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, "Đại lý Minh Phát", order.AgentName)
		assert.Equal(t, in.CustomerID, order.CustomerID)

		in.CustomerName = ""
		order, err = NewSaleOrder(accountID, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, DefaultWholesaleAgent, order.AgentName)
	})

	t.Run("wholesale order requires customer", func(t *testing.T) {
		in := retailInput()
		in.SaleType = SaleTypeWholesale
		_, err := NewSaleOrder(accountID, in, testNow)
		require.Error(t, err)
	})

	t.Run("zero quantity defaults to one", func(t *testing.T) {
		in := retailInput()
		in.Quantity = 0
		order, err := NewSaleOrder(accountID, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, int64(1), order.Quantity)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		in := retailInput()
		in.SaleType = "BULK"
		_, err := NewSaleOrder(accountID, in, testNow)
		assert.Error(t, err)

		in = retailInput()
		in.SalePrice = decimal.NewFromInt(-5)
		_, err = NewSaleOrder(accountID, in, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)

		in = retailInput()
		in.Date = "10-05-2024"
		_, err = NewSaleOrder(accountID, in, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidDate)
	})
}

func TestSaleOrder_TotalAmount(t *testing.T) {
	order := &SaleOrder{Quantity: 3, SalePrice: decimal.NewFromInt(45_000)}
	assert.True(t, decimal.NewFromInt(135_000).Equal(order.TotalAmount()))
}

func TestSaleOrder_ExtendDueDate(t *testing.T) {
	order := &SaleOrder{
		BaseEntity: shared.NewBaseEntity(uuid.New()),
		DueDate:    "2024-05-20",
	}

	log, err := order.ExtendDueDate("2024-06-01", "Khách hẹn cuối tháng", testNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", order.DueDate)
	assert.Equal(t, 1, order.DueDateChanges)
	assert.Equal(t, order.ID, log.OrderID)
	assert.Equal(t, "2024-05-20", log.OldDate)
	assert.Equal(t, "2024-06-01", log.NewDate)
	assert.Equal(t, "2024-05-10T09:30:00Z", log.UpdatedAt)
	assert.Equal(t, order.AccountID, log.AccountID)

	_, err = order.ExtendDueDate("2024-06-15", "Lần hai", testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, order.DueDateChanges)

	t.Run("failed extension leaves order untouched", func(t *testing.T) {
		_, err := order.ExtendDueDate("bad", "x", testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidDate)
		_, err = order.ExtendDueDate("2024-07-01", "  ", testNow)
		assert.Error(t, err)
		assert.Equal(t, 2, order.DueDateChanges)
		assert.Equal(t, "2024-06-15", order.DueDate)
	})
}
