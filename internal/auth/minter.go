package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the session token claims issued to dashboard users
type Claims struct {
	UserID     string `json:"user_id,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenMinter issues HS256 session tokens. The dashboard never verifies
// signatures itself; minted tokens are for local development and tests.
type TokenMinter struct {
	secretKey  []byte
	issuer     string
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenMinter creates a new token minter
func NewTokenMinter(secretKey []byte, issuer string, defaultTTL time.Duration) *TokenMinter {
	return &TokenMinter{
		secretKey:  secretKey,
		issuer:     issuer,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Mint signs a token carrying the given claims, valid for the default TTL
func (tm *TokenMinter) Mint(claims Claims) (string, error) {
	return tm.MintWithTTL(claims, tm.defaultTTL)
}

// MintWithTTL signs a token that expires ttl from now. A negative ttl
// yields an already expired token.
func (tm *TokenMinter) MintWithTTL(claims Claims, ttl time.Duration) (string, error) {
	if len(tm.secretKey) == 0 {
		return "", fmt.Errorf("token minter has no secret key")
	}

	now := tm.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tm.issuer,
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(tm.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
