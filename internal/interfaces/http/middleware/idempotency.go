package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/interfaces/http/dto"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header
const MaxIdempotencyKeyLength = 255

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store  shared.RequestKeyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a POST whose Idempotency-Key was already used by the
// same account on the same route. Requests without the header pass through.
// A key is released again when the request fails, so the client may retry.
// Must run after AccountAuth.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultRequestKeyTTL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyKeyHeader)
		if cfg.Store == nil || c.Request.Method != http.MethodPost || header == "" {
			c.Next()
			return
		}
		if len(header) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		key := "idem:" + c.GetString(AccountIDKey) + ":" + routeLabel(c) + ":" + header
		ctx := c.Request.Context()

		claimed, err := cfg.Store.Claim(ctx, key, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request anyway",
				zap.String("request_id", GetRequestID(c)), zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, "This request was already submitted", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(ctx, key); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
