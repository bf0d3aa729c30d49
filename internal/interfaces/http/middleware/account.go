package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/infrastructure/auth"
	"github.com/simpro/backend/internal/infrastructure/logger"
	"github.com/simpro/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	AccountIDKey  = "account_id"
	ClaimsKey     = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// TokenQueryParam carries the bearer token on websocket upgrades, where
	// browsers cannot set headers
	TokenQueryParam = "token"
)

const accountUUIDKey = "account_uuid"

// AccountAuthConfig holds configuration for the account middleware
type AccountAuthConfig struct {
	// Tokens validates bearer tokens. Nil disables bearer authentication.
	Tokens *auth.TokenService
	// AllowHeader accepts a plain X-Account-ID header. Only for deployments
	// behind a trusted gateway or local development.
	AllowHeader bool
	Logger      *zap.Logger
}

// AccountAuth resolves the account every request works on, from the
// account_id claim of a bearer token or from the X-Account-ID header
func AccountAuth(cfg AccountAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		accountID, claims, err := resolveAccount(c, cfg)
		if err != nil {
			log.Warn("Account authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			)
			abortUnauthorized(c, err)
			return
		}

		if claims != nil {
			c.Set(ClaimsKey, claims)
		}
		c.Set(AccountIDKey, accountID.String())
		c.Set(accountUUIDKey, accountID)
		c.Request = c.Request.WithContext(logger.WithAccountID(c.Request.Context(), accountID.String()))

		c.Next()
	}
}

var errNoCredentials = errors.New("no bearer token or account header")

func resolveAccount(c *gin.Context, cfg AccountAuthConfig) (uuid.UUID, *auth.Claims, error) {
	if token := bearerToken(c); token != "" && cfg.Tokens != nil {
		claims, err := cfg.Tokens.Validate(token)
		if err != nil {
			return uuid.Nil, nil, err
		}
		id, err := claims.AccountUUID()
		return id, claims, err
	}

	if cfg.AllowHeader {
		if header := c.GetHeader(AccountIDHeader); header != "" {
			id, err := uuid.Parse(header)
			if err != nil || id == uuid.Nil {
				return uuid.Nil, nil, auth.ErrInvalidAccountID
			}
			return id, nil, nil
		}
	}
	return uuid.Nil, nil, errNoCredentials
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader(AuthHeaderKey); strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	return c.Query(TokenQueryParam)
}

func abortUnauthorized(c *gin.Context, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	case errors.Is(err, auth.ErrMissingAccountID), errors.Is(err, auth.ErrInvalidAccountID):
		code, message = dto.ErrCodeTokenInvalid, "Missing or malformed account id"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetAccountID returns the account resolved by AccountAuth
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(accountUUIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetClaims returns the validated token claims, or nil for header authentication
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
