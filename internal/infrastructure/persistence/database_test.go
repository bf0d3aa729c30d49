package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/infrastructure/config"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	assert.NoError(t, db.Ping(context.Background()))
	for _, table := range []string{"sim_types", "sim_packages", "sale_orders", "transactions", "customers", "due_date_logs", "restore_runs"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}

	pool, err := db.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Stats().MaxOpenConnections)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestForAccount(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	type SimType struct {
		ID        string
		AccountID string
		Name      string
	}

	accountID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	mock.ExpectQuery(`SELECT \* FROM "sim_types" WHERE account_id = \$1`).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "name"}).AddRow("t1", accountID.String(), "Viettel"))

	var rows []SimType
	require.NoError(t, gormDB.Scopes(ForAccount(accountID)).Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_PingAndClose(t *testing.T) {
	gormDB, mock, _ := newMockGormDB(t)
	db := &Database{DB: gormDB}

	mock.ExpectPing()
	mock.ExpectClose()
	assert.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
