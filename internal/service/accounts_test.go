package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/picfeed/picfeed/internal/auth"
	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/internal/service/memstore"
	"github.com/picfeed/picfeed/pkg/config"
)

func newAccounts(t *testing.T) (*AccountService, *memstore.Store, *memCache) {
	t.Helper()
	mem := memstore.New()
	cache := newMemCache()
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTKey:   "test-signing-key-at-least-16",
		Issuer:   "picfeed-api",
		Audience: "picfeed-client",
		TokenTTL: time.Hour,
	})
	return NewAccountService(mem.Users(), tokens, cache), mem, cache
}

func register(t *testing.T, s *AccountService, username string) *Session {
	t.Helper()
	sess, err := s.Register(context.Background(), RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}
	return sess
}

func TestAccountService_RegisterValidation(t *testing.T) {
	valid := RegisterRequest{
		Username:        "alice_01",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
		want   string
	}{
		{"short username", func(r *RegisterRequest) { r.Username = "al" }, "at least 3"},
		{"long username", func(r *RegisterRequest) { r.Username = strings.Repeat("a", 51) }, "must not exceed 50"},
		{"username symbols", func(r *RegisterRequest) { r.Username = "al-ice" }, "letters, numbers and underscores"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "Invalid email"},
		{"short password", func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "12345", "12345" }, "at least 6"},
		{"mismatched confirmation", func(r *RegisterRequest) { r.ConfirmPassword = "secret2" }, "do not match"},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "Email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newAccounts(t)
			req := valid
			tt.mutate(&req)
			_, err := s.Register(context.Background(), req)
			wantKind(t, err, KindValidation)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	s, mem, _ := newAccounts(t)
	ctx := context.Background()

	sess := register(t, s, "alice")
	if sess.Token == "" || sess.Username != "alice" || sess.Email != "alice@example.com" {
		t.Fatalf("Register() = %+v", sess)
	}
	if user(t, mem).PasswordHash == "Password123!" {
		t.Error("password stored in clear text")
	}

	_, err := s.Register(ctx, RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	wantKind(t, err, KindConflict)
	_, err = s.Register(ctx, RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	wantKind(t, err, KindConflict)

	for _, login := range []string{"alice", "alice@example.com"} {
		if _, err := s.Login(ctx, LoginRequest{Username: login, Password: "Password123!"}); err != nil {
			t.Errorf("Login(%s) error = %v", login, err)
		}
	}

	_, err = s.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	wantKind(t, err, KindUnauthorized)
	_, err = s.Login(ctx, LoginRequest{Username: "nobody", Password: "Password123!"})
	wantKind(t, err, KindUnauthorized)
}

func TestAccountService_PasswordReset(t *testing.T) {
	s, mem, _ := newAccounts(t)
	ctx := context.Background()
	register(t, s, "alice")

	if err := s.ForgotPassword(ctx, EmailRequest{Email: "nobody@example.com"}); err != nil {
		t.Fatalf("ForgotPassword() for unknown email error = %v", err)
	}
	if err := s.ForgotPassword(ctx, EmailRequest{Email: "alice@example.com"}); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	token := user(t, mem).PasswordResetToken.String
	if token == "" {
		t.Fatal("reset token not stored")
	}

	err := s.ResetPassword(ctx, ResetPasswordRequest{Email: "alice@example.com", Token: "bogus", NewPassword: "newpass1"})
	wantKind(t, err, KindValidation)

	if err := s.ResetPassword(ctx, ResetPasswordRequest{Email: "alice@example.com", Token: token, NewPassword: "newpass1"}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if user(t, mem).PasswordResetToken.Valid {
		t.Error("reset token not cleared")
	}
	if _, err := s.Login(ctx, LoginRequest{Username: "alice", Password: "newpass1"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}

	// expired tokens are rejected
	_ = s.ForgotPassword(ctx, EmailRequest{Email: "alice@example.com"})
	token = user(t, mem).PasswordResetToken.String
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err = s.ResetPassword(ctx, ResetPasswordRequest{Email: "alice@example.com", Token: token, NewPassword: "newpass2"})
	wantKind(t, err, KindValidation)
}

func TestAccountService_EmailVerification(t *testing.T) {
	s, mem, _ := newAccounts(t)
	ctx := context.Background()
	register(t, s, "alice")

	if err := s.SendVerificationEmail(ctx, EmailRequest{Email: "alice@example.com"}); err != nil {
		t.Fatalf("SendVerificationEmail() error = %v", err)
	}
	token := user(t, mem).EmailVerificationToken.String

	err := s.VerifyEmail(ctx, VerifyEmailRequest{Email: "alice@example.com", Token: "bogus"})
	wantKind(t, err, KindValidation)

	if err := s.VerifyEmail(ctx, VerifyEmailRequest{Email: "alice@example.com", Token: token}); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if !user(t, mem).IsEmailVerified {
		t.Error("email not marked verified")
	}

	err = s.SendVerificationEmail(ctx, EmailRequest{Email: "alice@example.com"})
	wantKind(t, err, KindValidation)
}

func TestAccountService_ProfileCache(t *testing.T) {
	s, _, cache := newAccounts(t)
	ctx := context.Background()
	register(t, s, "alice")
	register(t, s, "bob")

	if _, err := s.Profile(ctx, "alice"); err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if _, err := s.Profile(ctx, "alice"); err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}

	_, err := s.UpdateProfile(ctx, 1, UpdateProfileRequest{Username: "bob", Email: "alice@example.com"})
	wantKind(t, err, KindConflict)
	_, err = s.UpdateProfile(ctx, 1, UpdateProfileRequest{Username: "alice", Email: "bob@example.com"})
	wantKind(t, err, KindConflict)

	updated, err := s.UpdateProfile(ctx, 1, UpdateProfileRequest{Username: "alicia", Email: "alicia@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Username != "alicia" || updated.IsEmailVerified {
		t.Errorf("UpdateProfile() = %+v", updated)
	}
	if _, ok := cache.entries[profileKey("alice")]; ok {
		t.Error("stale profile left in cache")
	}

	_, err = s.Profile(ctx, "alice")
	wantKind(t, err, KindNotFound)

	me, err := s.Me(ctx, 1)
	if err != nil || me.Username != "alicia" {
		t.Errorf("Me() = %+v, %v", me, err)
	}
}

func user(t *testing.T, mem *memstore.Store) models.User {
	t.Helper()
	u, ok := mem.User(1)
	if !ok {
		t.Fatal("user 1 missing")
	}
	return u
}
