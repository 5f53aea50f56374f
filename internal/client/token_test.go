package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestTokenExpiry(t *testing.T) {
	t.Run("with_exp", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
		token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

		got, ok := TokenExpiry(token)
		if !ok {
			t.Fatal("expected expiry to be found")
		}
		if !got.Equal(exp) {
			t.Errorf("expected %v, got %v", exp, got)
		}

		c := NewFinanceClient("http://localhost", token, nil)
		if got, ok := c.TokenExpiresAt(); !ok || !got.Equal(exp) {
			t.Errorf("client expiry mismatch: %v %v", got, ok)
		}
	})

	t.Run("already_expired_still_readable", func(t *testing.T) {
		exp := time.Now().Add(-time.Hour).Truncate(time.Second).UTC()
		token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

		if got, ok := TokenExpiry(token); !ok || !got.Equal(exp) {
			t.Errorf("expected %v, got %v (ok=%v)", exp, got, ok)
		}
	})

	t.Run("no_exp", func(t *testing.T) {
		token := signedToken(t, jwt.RegisteredClaims{Subject: "user-1"})
		if _, ok := TokenExpiry(token); ok {
			t.Error("expected no expiry")
		}
	})

	t.Run("opaque_or_empty", func(t *testing.T) {
		for _, token := range []string{"", "not-a-jwt"} {
			if _, ok := TokenExpiry(token); ok {
				t.Errorf("expected no expiry for %q", token)
			}
		}
	})
}
