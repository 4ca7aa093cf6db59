package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/picfeed/picfeed/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// first runs query.First and maps a missing row to (nil, nil)
func first[T any](query *gorm.DB) (*T, error) {
	var out T
	if err := query.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("username = ?", username))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("email = ?", email))
}

// GetByLogin retrieves a user whose username or email equals login
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login))
}

// GetByIDs retrieves multiple users by ID, keyed by ID
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UsernameTaken reports whether another user already owns username
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another user already owns email
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

// GetByResetToken retrieves the user owning an unexpired password reset token
func (r *UserRepository) GetByResetToken(ctx context.Context, email, token string, now time.Time) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).
		Where("email = ? AND password_reset_token = ? AND password_reset_token_expires > ?", email, token, now))
}

// GetByVerificationToken retrieves the user owning an unexpired email verification token
func (r *UserRepository) GetByVerificationToken(ctx context.Context, email, token string, now time.Time) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).
		Where("email = ? AND email_verification_token = ? AND email_verification_token_expires > ?", email, token, now))
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateBatch inserts many users at once, filling in their IDs
func (r *UserRepository) CreateBatch(ctx context.Context, users []*models.User, batchSize int) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(users, batchSize).Error
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Count returns the number of registered users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
