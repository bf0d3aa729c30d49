// Package testutil holds the fixtures shared by package and integration
// tests: throwaway databases, fixed account IDs and an account-scoped API
// client.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simpro/backend/internal/infrastructure/persistence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens a private in-memory database carrying the full back
// office schema. One connection keeps every query on the same memory store.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, (&persistence.Database{DB: db}).AutoMigrate())
	return db
}

// MockDB is a postgres-dialect GORM handle over sqlmock. Pings are
// monitored, so a test that pings must expect it.
type MockDB struct {
	DB   *gorm.DB
	Conn *sql.DB
	Mock sqlmock.Sqlmock
}

func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return &MockDB{DB: db, Conn: conn, Mock: mock}
}

func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet())
}

var accountNamespace = uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")

// NewTestUUID derives a stable UUID from seed, so fixtures can name the
// same account or record across tests.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(accountNamespace, []byte(seed))
}

// TestAccountID is the account most fixtures belong to
func TestAccountID() uuid.UUID {
	return NewTestUUID("simpro-test-account")
}

// ContextWithTimeout returns a context cancelled at timeout or at test end.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually fails the test unless cond holds within timeout.
func RequireEventually(t *testing.T, cond func() bool, timeout, tick time.Duration, msgAndArgs ...any) {
	t.Helper()
	require.Eventually(t, cond, timeout, tick, msgAndArgs...)
}

// AssertNever fails the test as soon as cond holds during window. It is used
// to check that a change was not published to another account.
func AssertNever(t *testing.T, cond func() bool, window, tick time.Duration, msgAndArgs ...any) {
	t.Helper()
	require.Never(t, cond, window, tick, msgAndArgs...)
}
