package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/domain/trade"
	"github.com/simpro/backend/internal/infrastructure/migration"
	"github.com/simpro/backend/internal/infrastructure/persistence"
)

func dataset() snapshot.Dataset {
	typeID, pkgID, orderID, custID := uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()
	return snapshot.Dataset{
		SimTypes: []catalog.SimType{{BaseEntity: shared.BaseEntity{ID: typeID}, Name: "Viettel"}},
		Packages: []inventory.SimPackage{{
			BaseEntity: shared.BaseEntity{ID: pkgID}, Code: "BATCH-1", SimTypeID: typeID,
			ImportDate: "2024-06-01", Quantity: 100, TotalImportPrice: decimal.RequireFromString("1234567.89"),
		}},
		Orders: []trade.SaleOrder{{
			BaseEntity: shared.BaseEntity{ID: orderID}, Code: "SO-1", Date: "2024-06-02", CustomerID: custID,
			SaleType: trade.SaleTypeWholesale, SimTypeID: typeID, SimPackageID: pkgID,
			Quantity: 10, SalePrice: decimal.NewFromInt(15000), DueDate: "2024-06-12",
		}},
		Transactions: []finance.Transaction{{
			BaseEntity: shared.BaseEntity{ID: uuid.NewString()}, Code: "TX-1", Date: "2024-06-02",
			Type: finance.TransactionTypeIn, Amount: decimal.NewFromInt(50000), Method: finance.PaymentMethodCash,
			SaleOrderID: orderID,
		}},
		Customers: []partner.Customer{{
			BaseEntity: shared.BaseEntity{ID: custID}, CID: "KH-A1234-ABCD", Name: "Đại lý A", Type: partner.CustomerTypeWholesale,
		}},
		DueDateLogs: []trade.DueDateLog{{
			BaseEntity: shared.BaseEntity{ID: uuid.NewString()}, OrderID: orderID,
			OldDate: "2024-06-05", NewDate: "2024-06-12", Reason: "Chờ hàng", UpdatedAt: "2024-06-04T10:00:00Z",
		}},
	}
}

func TestAccountDataRepository_Postgres(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormAccountDataRepository(testDB.DB)
	ctx := context.Background()
	accountID := uuid.New()
	other := uuid.New()

	data := dataset()
	require.NoError(t, repo.ReplaceAll(ctx, other, dataset()))
	require.NoError(t, repo.ReplaceAll(ctx, accountID, data))

	t.Run("round trip keeps values", func(t *testing.T) {
		loaded, err := repo.LoadAll(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, data.Counts(), loaded.Counts())
		assert.True(t, loaded.Packages[0].TotalImportPrice.Equal(decimal.RequireFromString("1234567.89")))
		assert.Equal(t, "Đại lý A", loaded.Customers[0].Name)
		assert.Equal(t, data.Transactions[0].SaleOrderID, loaded.Transactions[0].SaleOrderID)
		assert.Equal(t, accountID, loaded.SimTypes[0].AccountID)
	})

	t.Run("duplicate rows roll the whole replace back", func(t *testing.T) {
		broken := dataset()
		broken.SimTypes = append(broken.SimTypes, broken.SimTypes[0])

		require.Error(t, repo.ReplaceAll(ctx, accountID, broken))

		after, err := repo.LoadAll(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, after.SimTypes, 1)
		assert.Equal(t, data.SimTypes[0].ID, after.SimTypes[0].ID)
	})

	t.Run("other accounts are untouched", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, accountID, snapshot.Dataset{}))

		cleared, err := repo.LoadAll(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, cleared.IsEmpty())

		kept, err := repo.LoadAll(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, 1, kept.Counts()[snapshot.EntitySaleOrder])
	})
}

func TestMigrations_DownAndUpAgain(t *testing.T) {
	testDB := NewTestDB(t)
	sqlDB, err := testDB.DB.DB()
	require.NoError(t, err)

	// The migrator closes its connection, so it gets its own
	m, err := migration.New(mustOpen(t, testDB.DSN), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	var tables int
	require.NoError(t, sqlDB.QueryRow(
		`SELECT count(*) FROM pg_tables WHERE schemaname = 'public' AND tablename = 'sale_orders'`,
	).Scan(&tables))
	assert.Zero(t, tables)

	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "a second up is a no-op")
	require.NoError(t, sqlDB.QueryRow(
		`SELECT count(*) FROM pg_tables WHERE schemaname = 'public' AND tablename = 'sale_orders'`,
	).Scan(&tables))
	assert.Equal(t, 1, tables)
}
