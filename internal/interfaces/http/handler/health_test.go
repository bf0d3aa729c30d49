package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/tests/testutil"
)

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler("simpro-backend", "1.2.0", map[string]PingFunc{
		"database": func(context.Context) error { return nil },
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	decodeData(t, w, &body)
	assert.Equal(t, "simpro-backend", body.Name)
	assert.Equal(t, "1.2.0", body.Version)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.NotEmpty(t, body.GoVersion)
	assert.NotEmpty(t, body.Uptime)
}

func TestHealthHandler_DegradedDependency(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	mockDB.Mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	h := NewHealthHandler("simpro-backend", "dev", map[string]PingFunc{
		"database": mockDB.Conn.PingContext,
		"redis":    func(context.Context) error { return nil },
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body HealthResponse
	env := decode(t, w)
	require.NotNil(t, env.Data)
	decodeData(t, w, &body)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "connection refused", body.Checks["database"])
	assert.Equal(t, "ok", body.Checks["redis"])
	mockDB.ExpectationsWereMet(t)
}

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler("simpro-backend", "dev", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health/live", nil)
	h.Live(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
