package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/pkg/logging"
	"github.com/picfeed/picfeed/pkg/telemetry"
)

// CommentService handles one-level comment threads and comment likes
type CommentService struct {
	comments CommentStore
	posts    PostStore
	users    UserStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(comments CommentStore, posts PostStore, users UserStore) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		logger:   logging.WithComponent("comment-service"),
		now:      time.Now,
	}
}

// TopLevel returns one page of parentless comments on postID, oldest first
func (s *CommentService) TopLevel(ctx context.Context, postID uuid.UUID, viewerID int64, page Page) (*CommentList, error) {
	ctx, span := telemetry.StartSpan(ctx, "CommentService.TopLevel")
	defer span.End()

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, NotFound("Post not found")
	}

	total, items, err := s.comments.ListTopLevel(ctx, postID, page.Take, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	span.SetAttributes(attribute.Int64("comments.total", total))

	return s.list(ctx, total, items, viewerID)
}

// Replies returns one page of replies to parentID, oldest first
func (s *CommentService) Replies(ctx context.Context, parentID uuid.UUID, viewerID int64, page Page) (*CommentList, error) {
	ctx, span := telemetry.StartSpan(ctx, "CommentService.Replies")
	defer span.End()

	exists, err := s.comments.Exists(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check comment: %w", err)
	}
	if !exists {
		return nil, NotFound("Comment not found")
	}

	total, items, err := s.comments.ListReplies(ctx, parentID, page.Take, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	span.SetAttributes(attribute.Int64("comments.total", total))

	list, err := s.list(ctx, total, items, viewerID)
	if err != nil {
		return nil, err
	}
	// replies cannot be replied to
	for i := range list.Items {
		list.Items[i].RepliesCount = 0
	}
	return list, nil
}

func (s *CommentService) list(ctx context.Context, total int64, items []*models.Comment, viewerID int64) (*CommentList, error) {
	views, err := s.enrich(ctx, items, viewerID)
	if err != nil {
		return nil, err
	}
	return &CommentList{Total: total, Items: views}, nil
}

func (s *CommentService) enrich(ctx context.Context, items []*models.Comment, viewerID int64) ([]CommentView, error) {
	views := make([]CommentView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(items))
	authorIDs := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for i, c := range items {
		ids[i] = c.ID
		if !seen[c.UserID] {
			seen[c.UserID] = true
			authorIDs = append(authorIDs, c.UserID)
		}
	}

	stats, err := s.comments.Stats(ctx, ids, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment stats: %w", err)
	}
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment authors: %w", err)
	}

	for _, c := range items {
		views = append(views, newCommentView(c, authors[c.UserID], stats[c.ID]))
	}
	return views, nil
}

// Create adds a comment to postID, or a reply when parentID is set.
// Only top-level comments on the same post can be replied to.
func (s *CommentService) Create(ctx context.Context, postID uuid.UUID, userID int64, content string, parentID *uuid.UUID) (*CommentView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, Validation("Content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, Validation(fmt.Sprintf("Content must not exceed %d characters", models.MaxCommentLength))
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, NotFound("Post not found")
	}

	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		if parent == nil {
			return nil, NotFound("Parent comment not found")
		}
		if parent.PostID != postID {
			return nil, Validation("Parent comment belongs to a different post")
		}
		if parent.IsReply() {
			return nil, Validation("Cannot reply to a reply")
		}
	}

	comment := &models.Comment{
		ID:              uuid.New(),
		PostID:          postID,
		UserID:          userID,
		ParentCommentID: parentID,
		Content:         content,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	telemetry.RecordAction(ctx, "comment_created")
	s.logger.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("post_id", postID.String()),
		zap.Int64("user_id", userID),
		zap.Bool("reply", parentID != nil),
	)

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment author: %w", err)
	}
	view := newCommentView(comment, author, models.CommentStats{})
	return &view, nil
}

// Delete removes a comment authored by userID along with its replies and likes
func (s *CommentService) Delete(ctx context.Context, commentID uuid.UUID, userID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return NotFound("Comment not found")
	}
	if comment.UserID != userID {
		return Forbidden("You can only delete your own comments")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	telemetry.RecordAction(ctx, "comment_deleted")
	s.logger.Info("Comment deleted", zap.String("comment_id", commentID.String()), zap.Int64("user_id", userID))
	return nil
}

// Like records that userID likes the comment; liking twice is a no-op
func (s *CommentService) Like(ctx context.Context, commentID uuid.UUID, userID int64) error {
	exists, err := s.comments.Exists(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to check comment: %w", err)
	}
	if !exists {
		return NotFound("Comment not found")
	}

	created, err := s.comments.InsertLike(ctx, &models.CommentLike{
		ID:        uuid.New(),
		CommentID: commentID,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to like comment: %w", err)
	}
	if created {
		telemetry.RecordAction(ctx, "comment_liked")
	}
	return nil
}

// Unlike removes userID's like; unliking an absent like or comment is a no-op
func (s *CommentService) Unlike(ctx context.Context, commentID uuid.UUID, userID int64) error {
	removed, err := s.comments.DeleteLike(ctx, commentID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike comment: %w", err)
	}
	if removed {
		telemetry.RecordAction(ctx, "comment_unliked")
	}
	return nil
}
