package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/picfeed/picfeed/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// UserStore persists user accounts
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	GetByResetToken(ctx context.Context, email, token string, now time.Time) (*models.User, error)
	GetByVerificationToken(ctx context.Context, email, token string, now time.Time) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// FollowStore persists directed follow edges
type FollowStore interface {
	FolloweeIDs(ctx context.Context, followerID int64) ([]int64, error)
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	Insert(ctx context.Context, follow *models.Follow) (bool, error)
	Delete(ctx context.Context, followerID, followeeID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}

// PostStore persists posts and post likes
type PostStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID int64) ([]*models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []int64, limit, offset int) ([]*models.Post, error)
	Stats(ctx context.Context, ids []uuid.UUID, viewerID int64) (map[uuid.UUID]models.PostStats, error)
	InsertLike(ctx context.Context, like *models.PostLike) (bool, error)
	DeleteLike(ctx context.Context, postID uuid.UUID, userID int64) (bool, error)
}

// CommentStore persists comments and comment likes
type CommentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListTopLevel(ctx context.Context, postID uuid.UUID, limit, offset int) (int64, []*models.Comment, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, limit, offset int) (int64, []*models.Comment, error)
	Stats(ctx context.Context, ids []uuid.UUID, viewerID int64) (map[uuid.UUID]models.CommentStats, error)
	InsertLike(ctx context.Context, like *models.CommentLike) (bool, error)
	DeleteLike(ctx context.Context, commentID uuid.UUID, userID int64) (bool, error)
}

// ProfileCache stores rendered public profiles
type ProfileCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
