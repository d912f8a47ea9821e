package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for admin session tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens.
type TokenService interface {
	// Issue creates a signed token for subject and returns it with its expiry.
	Issue(subject string) (token string, expiresAt time.Time, err error)

	// Validate parses a token and returns its claims.
	Validate(token string) (*Claims, error)
}
