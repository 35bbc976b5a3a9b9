// Package jwtmw issues and verifies HS256 bearer tokens and provides the gin
// middleware that guards authenticated routes.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator signs time-bounded tokens for authenticated users.
type TokenGenerator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a TokenGenerator with the provided secret and token lifetime.
func NewGenerator(secret string, expiration time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT carrying the user's id as subject.
func (g *TokenGenerator) GenerateToken(userID uint, email string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(g.expiration).Unix(),
		"iat":   now.Unix(),
		"email": email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
