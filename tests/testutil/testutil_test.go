package testutil

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	require.NotNil(t, mockDB.DB)
	require.NotNil(t, mockDB.Mock)

	mockDB.Mock.ExpectPing()
	mockDB.Mock.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	require.NoError(t, mockDB.Conn.Ping())
	var n int
	require.NoError(t, mockDB.DB.Raw("SELECT count(*) FROM sale_orders").Scan(&n).Error)
	assert.Equal(t, 3, n)
	mockDB.ExpectationsWereMet(t)
}

func TestNewSQLiteDB(t *testing.T) {
	db := NewSQLiteDB(t)
	for _, table := range []string{"sim_types", "sim_packages", "sale_orders", "transactions", "customers", "due_date_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewTestUUID(t *testing.T) {
	a := NewTestUUID("seed")
	b := NewTestUUID("seed")
	c := NewTestUUID("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, uuid.Nil, TestAccountID())
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Minute)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.True(t, deadline.After(time.Now()))
}

func TestRequireEventually(t *testing.T) {
	var calls atomic.Int32
	RequireEventually(t, func() bool {
		return calls.Add(1) >= 3
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestAssertNever(t *testing.T) {
	AssertNever(t, func() bool { return false }, 20*time.Millisecond, 5*time.Millisecond)
}

func TestAPIClient_SendsAccountAndHeaders(t *testing.T) {
	accountID := TestAccountID()
	engine := gin.New()
	engine.POST("/api/v1/echo", func(c *gin.Context) {
		var body map[string]any
		require.NoError(t, c.ShouldBindJSON(&body))
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data": gin.H{
				"account": c.GetHeader(AccountIDHeader),
				"key":     c.GetHeader(IdempotencyKeyHeader),
				"name":    body["name"],
			},
		})
	})

	client := NewAPIClient(engine, accountID)
	w := client.Do(t, http.MethodPost, "/echo", map[string]string{"name": "Viettel"}, IdempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusCreated, w.Code)

	got := DecodeData[map[string]string](t, w)
	assert.Equal(t, accountID.String(), got["account"])
	assert.Equal(t, "k-1", got["key"])
	assert.Equal(t, "Viettel", got["name"])
}

func TestRequireErrorCode(t *testing.T) {
	engine := gin.New()
	engine.GET("/api/v1/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_NOT_FOUND", "message": "nope"},
		})
	})

	w := NewAPIClient(engine, uuid.Nil).Do(t, http.MethodGet, "/missing", nil)
	RequireErrorCode(t, w, http.StatusNotFound, "ERR_NOT_FOUND")
}
