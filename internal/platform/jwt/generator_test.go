package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestNewGenerator verifies the generator keeps the configured secret and lifetime.
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			if gen == nil {
				t.Fatal("expected generator to be non-nil")
			}
			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.expiration != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, gen.expiration)
			}
		})
	}
}

// TestGenerator_GenerateToken verifies the issued token parses and carries the expected claims.
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		userID uint
		email  string
	}{
		{"basic user", 1, "user@example.com"},
		{"user with special email", 42, "user+tag@example.com"},
		{"large user id", 999999, "test@test.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", time.Hour)
			tokenStr, err := gen.GenerateToken(tt.userID, tt.email)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
				if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
					t.Errorf("unexpected signing method: %v", tok.Header["alg"])
				}
				return []byte("test-secret"), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}

			claims := token.Claims.(jwt.MapClaims)
			if sub, ok := claims["sub"].(float64); !ok || uint(sub) != tt.userID {
				t.Errorf("expected sub %d, got %v", tt.userID, claims["sub"])
			}
			if email, ok := claims["email"].(string); !ok || email != tt.email {
				t.Errorf("expected email %q, got %v", tt.email, claims["email"])
			}
		})
	}
}

// TestGenerator_GenerateToken_Expiration checks exp and iat against a fixed clock.
func TestGenerator_GenerateToken_Expiration(t *testing.T) {
	t.Parallel()

	fixed := time.Now().Truncate(time.Second)
	gen := NewGenerator("test-secret", 2*time.Hour)
	gen.now = func() time.Time { return fixed }

	tokenStr, err := gen.GenerateToken(1, "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)

	if exp := int64(claims["exp"].(float64)); exp != fixed.Add(2*time.Hour).Unix() {
		t.Errorf("unexpected exp %d", exp)
	}
	if iat := int64(claims["iat"].(float64)); iat != fixed.Unix() {
		t.Errorf("unexpected iat %d", iat)
	}
}

// TestGenerator_GenerateToken_DifferentUsersProduceDifferentTokens checks tokens are user specific.
func TestGenerator_GenerateToken_DifferentUsersProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)

	token1, _ := gen.GenerateToken(1, "user1@example.com")
	token2, _ := gen.GenerateToken(2, "user2@example.com")

	if token1 == token2 {
		t.Error("expected different tokens for different users")
	}
}
