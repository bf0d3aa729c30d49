// Package auth issues and verifies the bearer tokens that carry an account id.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/simpro/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrTokenNotYetValid    = errors.New("token is not yet valid")
	ErrMissingAccountID    = errors.New("missing account_id in claims")
	ErrInvalidAccountID    = errors.New("account_id is not a valid uuid")
	ErrSecretNotConfigured = errors.New("jwt secret is not configured")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// AccountUUID parses the account id claim
func (c *Claims) AccountUUID() (uuid.UUID, error) {
	if c.AccountID == "" {
		return uuid.Nil, ErrMissingAccountID
	}
	id, err := uuid.Parse(c.AccountID)
	if err != nil {
		return uuid.Nil, ErrInvalidAccountID
	}
	return id, nil
}

// TokenService signs and validates HS256 access tokens
type TokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.JWTConfig) *TokenService {
	expiration := cfg.AccessTokenExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		expiration: expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue signs a token for one account. subject names the holder.
func (s *TokenService) Issue(accountID uuid.UUID, subject string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrSecretNotConfigured
	}
	now := s.now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		AccountID: accountID.String(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate verifies a token and returns its claims
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.AccountUUID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expiration returns the lifetime of issued tokens
func (s *TokenService) Expiration() time.Duration {
	return s.expiration
}
