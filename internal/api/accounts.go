package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/service"
	"github.com/picfeed/picfeed/pkg/logging"
)

// AccountAPI serves registration, login, recovery and profile routes
type AccountAPI struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewAccountAPI creates a new account API
func NewAccountAPI(accounts *service.AccountService) *AccountAPI {
	return &AccountAPI{
		accounts: accounts,
		logger:   logging.GetLogger().With(zap.String("component", "api-accounts")),
	}
}

// Register handles POST /api/auth/register
func (a *AccountAPI) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	session, err := a.accounts.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Login handles POST /api/auth/login
func (a *AccountAPI) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	session, err := a.accounts.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (a *AccountAPI) ForgotPassword(c *gin.Context) {
	var req service.EmailRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.accounts.ForgotPassword(c.Request.Context(), req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a password reset link has been sent."})
}

// ResetPassword handles POST /api/auth/reset-password
func (a *AccountAPI) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.accounts.ResetPassword(c.Request.Context(), req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}

// SendVerificationEmail handles POST /api/auth/send-verification-email
func (a *AccountAPI) SendVerificationEmail(c *gin.Context) {
	var req service.EmailRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.accounts.SendVerificationEmail(c.Request.Context(), req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a verification link has been sent."})
}

// VerifyEmail handles POST /api/auth/verify-email
func (a *AccountAPI) VerifyEmail(c *gin.Context) {
	var req service.VerifyEmailRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.accounts.VerifyEmail(c.Request.Context(), req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email has been verified successfully."})
}

// PublicProfile handles GET /api/auth/profile/:username
func (a *AccountAPI) PublicProfile(c *gin.Context) {
	profile, err := a.accounts.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Me handles GET /api/auth/profile
func (a *AccountAPI) Me(c *gin.Context) {
	profile, err := a.accounts.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/auth/profile
func (a *AccountAPI) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	profile, err := a.accounts.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              profile.ID,
		"username":        profile.Username,
		"email":           profile.Email,
		"isEmailVerified": profile.IsEmailVerified,
		"message":         "Profile updated successfully",
	})
}
