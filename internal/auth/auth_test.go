package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/picfeed/picfeed/pkg/config"
)

func testManager() *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTKey:   "test-signing-key-at-least-16",
		Issuer:   "picfeed-api",
		Audience: "picfeed-client",
		TokenTTL: time.Hour,
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := testManager()

	tok, err := m.Issue(42, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if tok.ExpiresAt.Before(time.Now()) {
		t.Errorf("ExpiresAt = %v, want future", tok.ExpiresAt)
	}

	claims, err := m.Parse(tok.Value)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	id, _ := claims.UserID()
	if id != 42 {
		t.Errorf("UserID = %d, want 42", id)
	}
	if claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := testManager()
	tok, err := m.Issue(1, "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other := NewTokenManager(&config.AuthConfig{
		JWTKey:   "a-different-signing-key",
		Issuer:   "picfeed-api",
		Audience: "picfeed-client",
		TokenTTL: time.Hour,
	})
	wrongAudience := NewTokenManager(&config.AuthConfig{
		JWTKey:   "test-signing-key-at-least-16",
		Issuer:   "picfeed-api",
		Audience: "someone-else",
		TokenTTL: time.Hour,
	})

	tests := []struct {
		name    string
		manager *TokenManager
		raw     string
		want    error
	}{
		{"garbage", m, "not-a-token", ErrTokenInvalid},
		{"wrong key", other, tok.Value, ErrTokenInvalid},
		{"wrong audience", wrongAudience, tok.Value, ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.manager.Parse(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTokenManager_Expired(t *testing.T) {
	m := testManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue(1, "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	m.now = time.Now
	if _, err := m.Parse(tok.Value); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Parse() error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenManager_RejectsNonNumericSubject(t *testing.T) {
	m := testManager()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "picfeed-api",
		Audience:  jwt.ClaimStrings{"picfeed-client"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := m.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Parse() error = %v, want ErrTokenInvalid", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Password123!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "Password123!" {
		t.Error("hash should not equal the password")
	}
	if !CheckPassword(hash, "Password123!") {
		t.Error("CheckPassword() = false for the right password")
	}
	if CheckPassword(hash, "password123!") {
		t.Error("CheckPassword() = true for the wrong password")
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken()
	if err != nil {
		t.Fatalf("RandomToken() error = %v", err)
	}
	b, _ := RandomToken()
	if a == b {
		t.Error("RandomToken() returned the same value twice")
	}
	if len(a) != 88 {
		t.Errorf("len = %d, want 88", len(a))
	}
}
