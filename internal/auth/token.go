package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the expiry claim from a bearer token without
// verifying its signature. The client has no signing key; this is a
// precondition check only, the backend remains the authority and still
// returns 401 for anything it rejects.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading token expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// TokenUsable reports whether a stored token exists and has not expired.
// Tokens without an expiry claim are assumed usable.
func TokenUsable(token string) bool {
	if token == "" {
		return false
	}

	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	if exp.IsZero() {
		return true
	}
	return time.Now().Before(exp)
}
