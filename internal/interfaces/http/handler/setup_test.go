package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	backupapp "github.com/simpro/backend/internal/application/backup"
	catalogapp "github.com/simpro/backend/internal/application/catalog"
	financeapp "github.com/simpro/backend/internal/application/finance"
	inventoryapp "github.com/simpro/backend/internal/application/inventory"
	partnerapp "github.com/simpro/backend/internal/application/partner"
	reportapp "github.com/simpro/backend/internal/application/report"
	appsync "github.com/simpro/backend/internal/application/sync"
	tradeapp "github.com/simpro/backend/internal/application/trade"
	"github.com/simpro/backend/internal/domain/report"
	"github.com/simpro/backend/internal/infrastructure/event"
	"github.com/simpro/backend/internal/infrastructure/persistence"
	"github.com/simpro/backend/internal/infrastructure/storage"
	"github.com/simpro/backend/internal/interfaces/http/dto"
	"github.com/simpro/backend/internal/interfaces/http/middleware"
	"github.com/simpro/backend/tests/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type testEnv struct {
	engine    *gin.Engine
	accountID uuid.UUID
	feed      *event.MemoryChangeFeed
}

// newTestEnv wires every handler over sqlite-backed services, the way the
// server does, under /api/v1 with header authentication
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewSQLiteDB(t)

	feed := event.NewMemoryChangeFeed(zap.NewNop())
	data := persistence.NewGormAccountDataRepository(db)
	syncer := appsync.NewSynchronizer(data, feed, zap.NewNop())
	t.Cleanup(func() { _ = syncer.StopAll() })
	notifier := appsync.NewNotifier(feed, zap.NewNop(), appsync.WithLocalSync(syncer))

	txRepo := persistence.NewGormTransactionRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)

	simTypes := NewSimTypeHandler(catalogapp.NewSimTypeService(persistence.NewGormSimTypeRepository(db), notifier))
	packages := NewSimPackageHandler(inventoryapp.NewSimPackageService(persistence.NewGormSimPackageRepository(db), txRepo, notifier))
	orders := NewSaleOrderHandler(tradeapp.NewSaleOrderService(
		persistence.NewGormSaleOrderRepository(db),
		persistence.NewGormDueDateLogRepository(db),
		customerRepo, txRepo, notifier, nil,
	))
	transactions := NewTransactionHandler(financeapp.NewTransactionService(txRepo, notifier, nil))
	customers := NewCustomerHandler(partnerapp.NewCustomerService(customerRepo, syncer, notifier, time.UTC))
	reports := NewReportHandler(reportapp.NewReportService(syncer, report.DefaultDashboardThresholds(), time.UTC))
	dataHandler := NewDataHandler(backupapp.NewService(data, persistence.NewGormRestoreRunRepository(db), notifier,
		backupapp.WithStore(storage.NewMemoryBackupStore(), "backups"),
	))
	changes := NewChangeHandler(feed, []string{"*"}, zap.NewNop())

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1", middleware.AccountAuth(middleware.AccountAuthConfig{AllowHeader: true}))

	api.GET("/sim-types", simTypes.List)
	api.POST("/sim-types", simTypes.Create)
	api.DELETE("/sim-types/:id", simTypes.Delete)

	api.GET("/packages", packages.List)
	api.POST("/packages", packages.Create)
	api.DELETE("/packages/:id", packages.Delete)

	api.GET("/orders", orders.List)
	api.POST("/orders", orders.Create)
	api.DELETE("/orders/:id", orders.Delete)
	api.POST("/orders/:id/extend-due-date", orders.ExtendDueDate)
	api.GET("/orders/:id/due-date-logs", orders.DueDateLogs)

	api.GET("/transactions", transactions.List)
	api.POST("/transactions", transactions.Create)
	api.DELETE("/transactions/:id", transactions.Delete)
	api.GET("/transactions/balances", transactions.Balances)

	api.GET("/customers", customers.List)
	api.POST("/customers", customers.Create)
	api.PUT("/customers/:id", customers.Update)
	api.DELETE("/customers/:id", customers.Delete)
	api.GET("/customers/:id/stats", customers.Stats)

	api.GET("/reports/inventory", reports.Inventory)
	api.GET("/reports/orders", reports.Orders)
	api.GET("/reports/customers", reports.Customers)
	api.GET("/reports/dashboard", reports.Dashboard)

	api.GET("/data/export", dataHandler.ExportWorkbook)
	api.GET("/data/export.json", dataHandler.ExportJSON)
	api.POST("/data/import", dataHandler.Import)
	api.GET("/data/backups", dataHandler.ListBackups)
	api.POST("/data/backups", dataHandler.Backup)
	api.POST("/data/backups/restore", dataHandler.Restore)
	api.GET("/data/restore-runs", dataHandler.RestoreRuns)

	api.GET("/changes/ws", changes.Stream)

	return &testEnv{engine: engine, accountID: uuid.New(), feed: feed}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AccountIDHeader, e.accountID.String())
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// envelope is dto.Response with Data left raw for typed decoding
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, into any) envelope {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, into))
	return env
}

func (e *testEnv) createSimType(t *testing.T, name string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/sim-types", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func (e *testEnv) createCustomer(t *testing.T, name string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/customers", map[string]any{"name": name, "phone": "0901234567"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID  string `json:"id"`
		CID string `json:"cid"`
	}
	decodeData(t, w, &created)
	require.NotEmpty(t, created.CID)
	return created.ID
}
