package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/infrastructure/cache"
)

func newIdempotencyRouter(t *testing.T, status *int) *gin.Engine {
	t.Helper()
	store := cache.NewInMemoryRequestKeyStore()
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(AccountIDKey, c.GetHeader(AccountIDHeader))
		c.Next()
	})
	router.Use(Idempotency(IdempotencyConfig{Store: store, TTL: time.Minute}))
	router.POST("/orders", func(c *gin.Context) {
		c.Status(*status)
	})
	return router
}

func post(router *gin.Engine, account, key string) int {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(AccountIDHeader, account)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestIdempotency_RejectsRepeat(t *testing.T) {
	status := http.StatusCreated
	router := newIdempotencyRouter(t, &status)

	assert.Equal(t, http.StatusCreated, post(router, "acc-1", "key-1"))
	assert.Equal(t, http.StatusConflict, post(router, "acc-1", "key-1"))
	// Keys are scoped to the account
	assert.Equal(t, http.StatusCreated, post(router, "acc-2", "key-1"))
}

func TestIdempotency_WithoutHeader(t *testing.T) {
	status := http.StatusCreated
	router := newIdempotencyRouter(t, &status)

	assert.Equal(t, http.StatusCreated, post(router, "acc-1", ""))
	assert.Equal(t, http.StatusCreated, post(router, "acc-1", ""))
}

func TestIdempotency_ReleasesOnFailure(t *testing.T) {
	status := http.StatusInternalServerError
	router := newIdempotencyRouter(t, &status)

	assert.Equal(t, http.StatusInternalServerError, post(router, "acc-1", "key-1"))
	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, post(router, "acc-1", "key-1"))
}

type failingKeyStore struct{}

func (failingKeyStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingKeyStore) Release(context.Context, string) error { return nil }
func (failingKeyStore) Close() error                          { return nil }

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	router := gin.New()
	router.Use(Idempotency(IdempotencyConfig{Store: failingKeyStore{}}))
	router.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(IdempotencyKeyHeader, "k")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
}
