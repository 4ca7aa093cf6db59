package models

import (
	"database/sql"
	"time"
)

// User represents a registered account
type User struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username        string    `gorm:"type:varchar(50);not null;uniqueIndex:ix_users_username;column:username"`
	Email           string    `gorm:"type:varchar(255);not null;uniqueIndex:ix_users_email;column:email"`
	PasswordHash    string    `gorm:"type:varchar(500);not null;column:password_hash"`
	IsEmailVerified bool      `gorm:"not null;default:false;column:is_email_verified"`
	CreatedAt       time.Time `gorm:"not null;column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`

	// Verification and reset tokens
	EmailVerificationToken        sql.NullString `gorm:"type:varchar(500);column:email_verification_token"`
	EmailVerificationTokenExpires sql.NullTime   `gorm:"column:email_verification_token_expires"`
	PasswordResetToken            sql.NullString `gorm:"type:varchar(500);column:password_reset_token"`
	PasswordResetTokenExpires     sql.NullTime   `gorm:"column:password_reset_token_expires"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
