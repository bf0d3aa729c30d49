package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/interfaces/http/dto"
	"github.com/simpro/backend/internal/interfaces/http/middleware"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"generic not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped domain error", fmt.Errorf("load: %w", shared.ErrForbidden), http.StatusForbidden, dto.ErrCodeForbidden},
		{"customer has debt", shared.NewDomainError(dto.CodeCustomerHasDebt, "owes money"), http.StatusConflict, dto.CodeCustomerHasDebt},
		{"invalid field", shared.NewDomainError("INVALID_QUANTITY", "bad quantity"), http.StatusBadRequest, "INVALID_QUANTITY"},
		{"storage disabled", shared.NewDomainError(dto.CodeStorageDisabled, "off"), http.StatusServiceUnavailable, dto.CodeStorageDisabled},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.NotContains(t, resp.Error.Message, "disk on fire")
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	(&BaseHandler{}).HandleError(c, nil)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_AccountMissing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := (&BaseHandler{}).account(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
