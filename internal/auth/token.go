package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
)

// DefaultAccessTokenTTL is the session token lifetime.
const DefaultAccessTokenTTL = time.Hour

// AccessTokenClaims are the identity claims carried by a session token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	TenantID string      `json:"tenant_id"`
	Role     domain.Role `json:"role"`
}

// TokenConfig holds token service configuration.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a new token service.
func NewTokenService(config TokenConfig) *TokenService {
	if config.TTL == 0 {
		config.TTL = DefaultAccessTokenTTL
	}
	return &TokenService{config: config}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.config.TTL
}

// Issue signs identity claims into a session token expiring after the
// configured TTL.
func (s *TokenService) Issue(userID, tenantID uuid.UUID, role domain.Role) (string, error) {
	now := time.Now()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			Issuer:    s.config.Issuer,
		},
		TenantID: tenantID.String(),
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}

// Verify validates a session token and returns its claims. Any signature,
// algorithm, shape, or expiry problem surfaces as ErrInvalidToken; claims
// from an unverified decode are never returned.
func (s *TokenService) Verify(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
