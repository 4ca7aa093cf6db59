package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/pkg/logging"
	"github.com/picfeed/picfeed/pkg/telemetry"
)

// PostService handles post authoring and post likes
type PostService struct {
	posts  PostStore
	users  UserStore
	logger *zap.Logger
	now    func() time.Time
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, users UserStore) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		logger: logging.WithComponent("post-service"),
		now:    time.Now,
	}
}

// Create publishes a new post owned by userID
func (s *PostService) Create(ctx context.Context, userID int64, imageURL string, caption *string) (*PostView, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, Validation("Image URL is required")
	}
	if utf8.RuneCountInString(imageURL) > models.MaxImageURLLength {
		return nil, Validation(fmt.Sprintf("Image URL must not exceed %d characters", models.MaxImageURLLength))
	}

	post := &models.Post{
		ID:        uuid.New(),
		UserID:    userID,
		ImageURL:  imageURL,
		CreatedAt: s.now().UTC(),
	}
	if caption != nil && *caption != "" {
		if utf8.RuneCountInString(*caption) > models.MaxCaptionLength {
			return nil, Validation(fmt.Sprintf("Caption must not exceed %d characters", models.MaxCaptionLength))
		}
		post.Caption = sql.NullString{String: *caption, Valid: true}
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	telemetry.RecordAction(ctx, "post_created")
	s.logger.Info("Post created", zap.String("post_id", post.ID.String()), zap.Int64("user_id", userID))

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post author: %w", err)
	}
	view := newPostView(post, author, models.PostStats{})
	return &view, nil
}

// Delete removes a post owned by userID together with its likes and comments
func (s *PostService) Delete(ctx context.Context, postID uuid.UUID, userID int64) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return NotFound("Post not found")
	}
	if post.UserID != userID {
		return Forbidden("You can only delete your own posts")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	telemetry.RecordAction(ctx, "post_deleted")
	s.logger.Info("Post deleted", zap.String("post_id", postID.String()), zap.Int64("user_id", userID))
	return nil
}

// Like records that userID likes the post; liking twice is a no-op
func (s *PostService) Like(ctx context.Context, postID uuid.UUID, userID int64) error {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return NotFound("Post not found")
	}

	created, err := s.posts.InsertLike(ctx, &models.PostLike{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	if created {
		telemetry.RecordAction(ctx, "post_liked")
	}
	return nil
}

// Unlike removes userID's like; unliking an absent like or post is a no-op
func (s *PostService) Unlike(ctx context.Context, postID uuid.UUID, userID int64) error {
	removed, err := s.posts.DeleteLike(ctx, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	if removed {
		telemetry.RecordAction(ctx, "post_unliked")
	}
	return nil
}
