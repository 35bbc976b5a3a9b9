package jwtmw

import (
	"github.com/golang-jwt/jwt/v5"

	"analytics_backend/internal/shared/apperror"
)

// ErrUnauthenticated is returned for missing, malformed, expired or forged tokens.
var ErrUnauthenticated = apperror.New(apperror.KindUnauthenticated, "invalid or expired token")

// TokenVerifier validates tokens issued by TokenGenerator.
// Verification is a pure computation: no session store is consulted.
type TokenVerifier struct {
	secret []byte
}

// NewVerifier creates a TokenVerifier for the given HMAC secret.
func NewVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify checks the token's signature, algorithm and expiry and returns the
// user id it was issued for.
func (v *TokenVerifier) Verify(tokenStr string) (uint, error) {
	if tokenStr == "" || len(v.secret) == 0 {
		return 0, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; "none" and asymmetric algorithms are rejected.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrUnauthenticated
	}
	// JWT numbers are decoded as float64
	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 || sub != float64(uint(sub)) {
		return 0, ErrUnauthenticated
	}
	return uint(sub), nil
}
