package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a bearer token without verifying its
// signature; the server is the one that verifies. ok is false when the token
// is empty, opaque, or carries no expiry.
func TokenExpiry(token string) (expiresAt time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time.UTC(), true
}

// TokenExpiresAt returns the expiry of the configured token, if it has one.
func (c *FinanceClient) TokenExpiresAt() (time.Time, bool) {
	return TokenExpiry(c.token)
}
