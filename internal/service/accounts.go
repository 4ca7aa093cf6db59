package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/auth"
	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/pkg/logging"
)

// Token lifetimes
const (
	ResetTokenTTL        = time.Hour
	VerificationTokenTTL = 24 * time.Hour
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(userID int64, username, email string) (*auth.Token, error)
}

// RegisterRequest is the input to Register
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50,handle"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest is the input to Login; Username may also hold an email
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest names the account for reset and verification mail
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the input to ResetPassword
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100"`
}

// VerifyEmailRequest is the input to VerifyEmail
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest is the input to UpdateProfile
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,handle"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// AccountService handles registration, login, recovery and profiles
type AccountService struct {
	users    UserStore
	tokens   TokenIssuer
	cache    ProfileCache
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService creates a new account service; profileCache may be nil
func NewAccountService(users UserStore, tokens TokenIssuer, profileCache ProfileCache) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		cache:    profileCache,
		validate: newValidator(),
		logger:   logging.WithComponent("account-service"),
		now:      time.Now,
	}
}

func profileKey(username string) string {
	return "profile:" + username
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:      token.Value,
		Username:   user.Username,
		Email:      user.Email,
		Expiration: token.ExpiresAt,
	}, nil
}

// Register creates an account and signs the new user in
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if err := check(s.validate, req); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, Conflict("Username already exists")
	}
	taken, err = s.users.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, Conflict("Email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", user.Username), zap.Int64("user_id", user.ID))
	return s.session(user)
}

// Login signs in by username or email
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if err := check(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByLogin(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, Unauthorized("Invalid username or password")
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", user.Username), zap.Int64("user_id", user.ID))
	return s.session(user)
}

// ForgotPassword issues a reset token when the email is registered.
// Unknown emails succeed silently.
func (s *AccountService) ForgotPassword(ctx context.Context, req EmailRequest) error {
	if err := check(s.validate, req); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := auth.RandomToken()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	user.PasswordResetToken = sql.NullString{String: token, Valid: true}
	user.PasswordResetTokenExpires = sql.NullTime{Time: now.Add(ResetTokenTTL), Valid: true}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// no mailer yet; the log line is the delivery channel
	s.logger.Info("Password reset requested", zap.String("email", user.Email), zap.String("token", token))
	return nil
}

// ResetPassword replaces the password when the reset token is valid
func (s *AccountService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := check(s.validate, req); err != nil {
		return err
	}

	now := s.now().UTC()
	user, err := s.users.GetByResetToken(ctx, req.Email, req.Token, now)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return Validation("Invalid or expired reset token.")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.PasswordResetToken = sql.NullString{}
	user.PasswordResetTokenExpires = sql.NullTime{}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", zap.String("email", user.Email))
	return nil
}

// SendVerificationEmail issues a verification token for an unverified address.
// Unknown emails succeed silently.
func (s *AccountService) SendVerificationEmail(ctx context.Context, req EmailRequest) error {
	if err := check(s.validate, req); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil
	}
	if user.IsEmailVerified {
		return Validation("Email is already verified.")
	}

	token, err := auth.RandomToken()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	user.EmailVerificationToken = sql.NullString{String: token, Valid: true}
	user.EmailVerificationTokenExpires = sql.NullTime{Time: now.Add(VerificationTokenTTL), Valid: true}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	s.logger.Info("Email verification sent", zap.String("email", user.Email), zap.String("token", token))
	return nil
}

// VerifyEmail marks the address verified when the token is valid
func (s *AccountService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	if err := check(s.validate, req); err != nil {
		return err
	}

	now := s.now().UTC()
	user, err := s.users.GetByVerificationToken(ctx, req.Email, req.Token, now)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return Validation("Invalid or expired verification token.")
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = sql.NullString{}
	user.EmailVerificationTokenExpires = sql.NullTime{}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	s.invalidate(ctx, user.Username)
	s.logger.Info("Email verified", zap.String("email", user.Email))
	return nil
}

// Profile returns the public profile of username, served from cache when possible
func (s *AccountService) Profile(ctx context.Context, username string) (*Profile, error) {
	if s.cache != nil {
		var cached Profile
		if err := s.cache.GetJSON(ctx, profileKey(username), &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, NotFound("User not found")
	}

	profile := newProfile(user)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, profileKey(username), profile, 0); err != nil {
			s.logger.Debug("Profile not cached", zap.String("username", username), zap.Error(err))
		}
	}
	return profile, nil
}

// Me returns the profile of the signed-in user
func (s *AccountService) Me(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	return newProfile(user), nil
}

// UpdateProfile changes username and email; a new email must be verified again
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*Profile, error) {
	if err := check(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	oldUsername := user.Username

	if user.Username != req.Username {
		taken, err := s.users.UsernameTaken(ctx, req.Username, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, Conflict("Username already exists")
		}
		user.Username = req.Username
	}

	if user.Email != req.Email {
		taken, err := s.users.EmailTaken(ctx, req.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, Conflict("Email already exists")
		}
		user.Email = req.Email
		user.IsEmailVerified = false
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.invalidate(ctx, oldUsername, user.Username)
	s.logger.Info("Profile updated", zap.Int64("user_id", userID))
	return newProfile(user), nil
}

func (s *AccountService) invalidate(ctx context.Context, usernames ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = profileKey(u)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Debug("Profile cache not invalidated", zap.Strings("keys", keys), zap.Error(err))
	}
}
