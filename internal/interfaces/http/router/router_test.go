package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_BasePath(t *testing.T) {
	pong := func(c *gin.Context) { c.String(http.StatusOK, "pong") }

	engine := gin.New()
	NewRouter(engine).Register(NewResourceGroup("/sim-types").GET("/ping", pong)).Setup()
	assert.Equal(t, "pong", serve(engine, http.MethodGet, "/api/v1/sim-types/ping").Body.String())

	engine = gin.New()
	NewRouter(engine, WithBasePath("/api/v2")).Register(NewResourceGroup("/sim-types").GET("/ping", pong)).Setup()
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/sim-types/ping").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/sim-types/ping").Code)
}

func TestRouter_MiddlewareSkipsEngineRoutes(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	customers := NewResourceGroup("/customers").GET("", func(c *gin.Context) { c.String(http.StatusOK, "customers") })
	NewRouter(engine, WithMiddleware(deny)).Register(customers).Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/customers").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

func TestResourceGroup(t *testing.T) {
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method+" "+c.FullPath()) }

	t.Run("verbs", func(t *testing.T) {
		engine := gin.New()
		NewResourceGroup("/customers").
			GET("", echo).
			POST("", echo).
			PUT("/:id", echo).
			DELETE("/:id", echo).
			Handle(http.MethodPatch, "/:id", echo).
			RegisterRoutes(engine.Group("/api/v1"))

		for _, tt := range []struct{ method, path, want string }{
			{http.MethodGet, "/api/v1/customers", "GET /api/v1/customers"},
			{http.MethodPost, "/api/v1/customers", "POST /api/v1/customers"},
			{http.MethodPut, "/api/v1/customers/c1", "PUT /api/v1/customers/:id"},
			{http.MethodDelete, "/api/v1/customers/c1", "DELETE /api/v1/customers/:id"},
			{http.MethodPatch, "/api/v1/customers/c1", "PATCH /api/v1/customers/:id"},
		} {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, tt.path)
			assert.Equal(t, tt.want, w.Body.String())
		}
	})

	t.Run("middleware reaches nested groups", func(t *testing.T) {
		engine := gin.New()
		data := NewResourceGroup("/data").Use(func(c *gin.Context) {
			c.Header("X-Scope", "data")
			c.Next()
		})
		data.GET("/export", echo)
		data.Nest("/backups").GET("", echo)
		data.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/data/backups")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "GET /api/v1/data/backups", w.Body.String())
		assert.Equal(t, "data", w.Header().Get("X-Scope"))
		assert.Equal(t, "data", serve(engine, http.MethodGet, "/api/v1/data/export").Header().Get("X-Scope"))
	})
}

func TestDomainGroups_RouteTable(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(DomainGroups(Handlers{})...).Setup()
	RegisterHealth(engine, handler.NewHealthHandler("test", "dev", nil))

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/v1/sim-types",
		"POST /api/v1/sim-types",
		"DELETE /api/v1/sim-types/:id",
		"GET /api/v1/packages",
		"POST /api/v1/packages",
		"DELETE /api/v1/packages/:id",
		"GET /api/v1/orders",
		"POST /api/v1/orders",
		"DELETE /api/v1/orders/:id",
		"POST /api/v1/orders/:id/extend-due-date",
		"GET /api/v1/orders/:id/due-date-logs",
		"GET /api/v1/transactions",
		"POST /api/v1/transactions",
		"GET /api/v1/transactions/balances",
		"DELETE /api/v1/transactions/:id",
		"GET /api/v1/customers",
		"POST /api/v1/customers",
		"PUT /api/v1/customers/:id",
		"DELETE /api/v1/customers/:id",
		"GET /api/v1/customers/:id/stats",
		"GET /api/v1/reports/inventory",
		"GET /api/v1/reports/orders",
		"GET /api/v1/reports/customers",
		"GET /api/v1/reports/dashboard",
		"GET /api/v1/data/export",
		"GET /api/v1/data/export.json",
		"POST /api/v1/data/import",
		"GET /api/v1/data/restore-runs",
		"GET /api/v1/data/backups",
		"POST /api/v1/data/backups",
		"POST /api/v1/data/backups/restore",
		"GET /api/v1/changes/ws",
		"GET /health",
		"GET /health/live",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
	require.Len(t, engine.Routes(), len(expected))
}
