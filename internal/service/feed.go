package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/pkg/logging"
	"github.com/picfeed/picfeed/pkg/telemetry"
)

// FeedService assembles post timelines at read time from the follow graph
type FeedService struct {
	follows FollowStore
	posts   PostStore
	users   UserStore
	logger  *zap.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(follows FollowStore, posts PostStore, users UserStore) *FeedService {
	return &FeedService{
		follows: follows,
		posts:   posts,
		users:   users,
		logger:  logging.WithComponent("feed-service"),
	}
}

// Feed returns one page of posts by userID and everyone userID follows, newest first
func (s *FeedService) Feed(ctx context.Context, userID int64, page Page) ([]PostView, error) {
	ctx, span := telemetry.StartSpan(ctx, "FeedService.Feed")
	defer span.End()

	followees, err := s.follows.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load followees: %w", err)
	}
	authors := append(followees, userID)

	posts, err := s.posts.ListByAuthors(ctx, authors, page.Take, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed posts: %w", err)
	}

	span.SetAttributes(
		attribute.Int("feed.authors", len(authors)),
		attribute.Int("feed.posts", len(posts)),
	)
	s.logger.Debug("Feed assembled",
		zap.Int64("user_id", userID),
		zap.Int("authors", len(authors)),
		zap.Int("posts", len(posts)),
		zap.Int("skip", page.Skip),
	)

	return enrichPosts(ctx, s.posts, s.users, posts, userID)
}

// UserPosts returns every post by ownerID, newest first, as seen by viewerID
func (s *FeedService) UserPosts(ctx context.Context, ownerID, viewerID int64) ([]PostView, error) {
	posts, err := s.posts.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user posts: %w", err)
	}
	return enrichPosts(ctx, s.posts, s.users, posts, viewerID)
}

// Post returns a single post as seen by viewerID
func (s *FeedService) Post(ctx context.Context, postID uuid.UUID, viewerID int64) (*PostView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, NotFound("Post not found")
	}

	views, err := enrichPosts(ctx, s.posts, s.users, []*models.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// enrichPosts attaches author names and aggregates with one batched lookup each
func enrichPosts(ctx context.Context, store PostStore, users UserStore, posts []*models.Post, viewerID int64) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	seen := make(map[int64]bool, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	stats, err := store.Stats(ctx, ids, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post stats: %w", err)
	}
	authors, err := users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load post authors: %w", err)
	}

	for _, p := range posts {
		views = append(views, newPostView(p, authors[p.UserID], stats[p.ID]))
	}
	return views, nil
}
