// Package seeder fills an empty database with synthetic users, follows,
// posts, likes and comments for load testing.
package seeder

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/auth"
	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/pkg/logging"
)

// DefaultPassword is shared by every seeded account
const DefaultPassword = "Password123!"

const (
	userBatchSize    = 1000
	followBatchSize  = 5000
	postBatchSize    = 1000
	rowBatchSize     = 5000
	usersPerPostPass = 1000
)

// UserWriter is the subset of the user repository the seeder needs
type UserWriter interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, users []*models.User, batchSize int) error
}

// FollowWriter inserts follow edges
type FollowWriter interface {
	InsertBatch(ctx context.Context, follows []*models.Follow, batchSize int) error
}

// PostWriter inserts posts and their likes
type PostWriter interface {
	CreateBatch(ctx context.Context, posts []*models.Post, batchSize int) error
	InsertLikesBatch(ctx context.Context, likes []*models.PostLike, batchSize int) error
}

// CommentWriter inserts comments and their likes
type CommentWriter interface {
	CreateBatch(ctx context.Context, comments []*models.Comment, batchSize int) error
	InsertLikesBatch(ctx context.Context, likes []*models.CommentLike, batchSize int) error
}

// Options controls how much data is generated
type Options struct {
	Users        int
	PostsPerUser int
}

// Summary reports what a run inserted
type Summary struct {
	Skipped      bool
	Users        int
	Follows      int
	Posts        int
	PostLikes    int
	Comments     int
	CommentLikes int
}

// Seeder generates and stores synthetic data
type Seeder struct {
	users    UserWriter
	follows  FollowWriter
	posts    PostWriter
	comments CommentWriter
	rng      *rand.Rand
	now      time.Time
	hash     func(string) (string, error)
	logger   *zap.Logger
}

// New creates a seeder writing through the given stores
func New(users UserWriter, follows FollowWriter, posts PostWriter, comments CommentWriter, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		users:    users,
		follows:  follows,
		posts:    posts,
		comments: comments,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now().UTC(),
		hash:     auth.HashPassword,
		logger:   logging.WithComponent("seeder"),
	}
}

// Run seeds the database unless it already has users
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	existing, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		s.logger.Warn("Database already contains users, skipping seed", zap.Int64("users", existing))
		return &Summary{Skipped: true}, nil
	}

	summary := &Summary{}

	s.logger.Info("Creating users", zap.Int("count", opts.Users))
	users, err := s.createUsers(ctx, opts.Users)
	if err != nil {
		return nil, err
	}
	summary.Users = len(users)

	s.logger.Info("Creating follows")
	if summary.Follows, err = s.createFollows(ctx, users); err != nil {
		return nil, err
	}

	s.logger.Info("Creating posts", zap.Int("count", len(users)*opts.PostsPerUser))
	for start := 0; start < len(users); start += usersPerPostPass {
		end := min(start+usersPerPostPass, len(users))
		if err := s.createContent(ctx, users, users[start:end], opts.PostsPerUser, summary); err != nil {
			return nil, err
		}
		s.logger.Info("Content progress", zap.Int("users_done", end), zap.Int("users_total", len(users)))
	}

	s.logger.Info("Seeding completed",
		zap.Int("users", summary.Users),
		zap.Int("follows", summary.Follows),
		zap.Int("posts", summary.Posts),
		zap.Int("post_likes", summary.PostLikes),
		zap.Int("comments", summary.Comments),
		zap.Int("comment_likes", summary.CommentLikes),
	)
	return summary, nil
}

func (s *Seeder) createUsers(ctx context.Context, count int) ([]*models.User, error) {
	// every account shares one hash
	hash, err := s.hash(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]*models.User, 0, count)
	used := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		username := s.uniqueUsername(used)
		users = append(users, &models.User{
			Username:        username,
			Email:           username + "@example.com",
			PasswordHash:    hash,
			IsEmailVerified: s.rng.Intn(10) > 1,
			CreatedAt:       s.daysAgo(1, 365),
		})
	}

	if err := s.users.CreateBatch(ctx, users, userBatchSize); err != nil {
		return nil, fmt.Errorf("failed to insert users: %w", err)
	}
	return users, nil
}

// uniqueUsername draws names until one is unused, then records it
func (s *Seeder) uniqueUsername(used map[string]struct{}) string {
	for {
		name := s.username()
		if _, taken := used[name]; !taken {
			used[name] = struct{}{}
			return name
		}
	}
}

func (s *Seeder) username() string {
	first := strings.ToLower(pick(s.rng, firstNames))
	last := strings.ToLower(pick(s.rng, lastNames))
	suffix := 1000 + s.rng.Intn(9000)

	switch s.rng.Intn(3) {
	case 0:
		return fmt.Sprintf("%s%s%d", first, last, suffix)
	case 1:
		return fmt.Sprintf("%s_%s%d", first, pick(s.rng, adjectives), suffix)
	default:
		return fmt.Sprintf("%s_%s%d", first, last, suffix)
	}
}

func (s *Seeder) createFollows(ctx context.Context, users []*models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	var follows []*models.Follow
	for i, follower := range users {
		want := min(10+s.rng.Intn(91), len(users)-1)
		picked := make(map[int]struct{}, want)
		for len(picked) < want {
			j := s.rng.Intn(len(users))
			if j == i {
				continue
			}
			if _, dup := picked[j]; dup {
				continue
			}
			picked[j] = struct{}{}
			follows = append(follows, &models.Follow{
				ID:         uuid.New(),
				FollowerID: follower.ID,
				FolloweeID: users[j].ID,
				CreatedAt:  s.daysAgo(1, 365),
			})
		}
	}

	if err := s.follows.InsertBatch(ctx, follows, followBatchSize); err != nil {
		return 0, fmt.Errorf("failed to insert follows: %w", err)
	}
	return len(follows), nil
}

// createContent generates posts for authors, with likes and comments drawn from everyone
func (s *Seeder) createContent(ctx context.Context, everyone, authors []*models.User, perUser int, summary *Summary) error {
	var (
		posts        []*models.Post
		postLikes    []*models.PostLike
		comments     []*models.Comment
		commentLikes []*models.CommentLike
	)

	for _, author := range authors {
		for p := 0; p < perUser; p++ {
			post := &models.Post{
				ID:        uuid.New(),
				UserID:    author.ID,
				ImageURL:  fmt.Sprintf("https://picsum.photos/seed/img%d/800/800?user=%d&post=%d", 1+s.rng.Intn(imageCount), author.ID, p),
				CreatedAt: s.daysAgo(1, 180),
			}
			if s.rng.Intn(3) != 0 {
				post.Caption = sql.NullString{String: pick(s.rng, captions), Valid: true}
			}
			posts = append(posts, post)

			for _, liker := range s.sample(everyone, 5, 200) {
				postLikes = append(postLikes, &models.PostLike{
					ID:        uuid.New(),
					PostID:    post.ID,
					UserID:    liker.ID,
					CreatedAt: s.after(post.CreatedAt, 10000),
				})
			}

			var top []*models.Comment
			for c, n := 0, s.rng.Intn(21); c < n; c++ {
				comment := &models.Comment{
					ID:        uuid.New(),
					PostID:    post.ID,
					UserID:    pick(s.rng, everyone).ID,
					Content:   pick(s.rng, commentTexts),
					CreatedAt: s.after(post.CreatedAt, 10000),
				}
				top = append(top, comment)
				comments = append(comments, comment)

				for _, liker := range s.sample(everyone, 0, 50) {
					commentLikes = append(commentLikes, &models.CommentLike{
						ID:        uuid.New(),
						CommentID: comment.ID,
						UserID:    liker.ID,
						CreatedAt: s.after(comment.CreatedAt, 1000),
					})
				}
			}

			// the first few comments get up to three replies each
			for _, parent := range top[:min(5, len(top))] {
				for r, n := 0, s.rng.Intn(4); r < n; r++ {
					parentID := parent.ID
					comments = append(comments, &models.Comment{
						ID:              uuid.New(),
						PostID:          post.ID,
						UserID:          pick(s.rng, everyone).ID,
						ParentCommentID: &parentID,
						Content:         pick(s.rng, commentTexts),
						CreatedAt:       s.after(parent.CreatedAt, 5000),
					})
				}
			}
		}
	}

	if err := s.posts.CreateBatch(ctx, posts, postBatchSize); err != nil {
		return fmt.Errorf("failed to insert posts: %w", err)
	}
	if err := s.posts.InsertLikesBatch(ctx, postLikes, rowBatchSize); err != nil {
		return fmt.Errorf("failed to insert post likes: %w", err)
	}
	if err := s.comments.CreateBatch(ctx, comments, rowBatchSize); err != nil {
		return fmt.Errorf("failed to insert comments: %w", err)
	}
	if err := s.comments.InsertLikesBatch(ctx, commentLikes, rowBatchSize); err != nil {
		return fmt.Errorf("failed to insert comment likes: %w", err)
	}

	summary.Posts += len(posts)
	summary.PostLikes += len(postLikes)
	summary.Comments += len(comments)
	summary.CommentLikes += len(commentLikes)
	return nil
}

// sample makes between lo and hi random draws from users, dropping repeats
func (s *Seeder) sample(users []*models.User, lo, hi int) []*models.User {
	draws := lo + s.rng.Intn(hi-lo+1)
	if draws == 0 || len(users) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, draws)
	out := make([]*models.User, 0, draws)
	for k := 0; k < draws; k++ {
		i := s.rng.Intn(len(users))
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, users[i])
	}
	return out
}

func (s *Seeder) daysAgo(lo, hi int) time.Time {
	return s.now.AddDate(0, 0, -(lo + s.rng.Intn(hi-lo)))
}

// after returns a moment up to maxMinutes after t, never later than now
func (s *Seeder) after(t time.Time, maxMinutes int) time.Time {
	at := t.Add(time.Duration(1+s.rng.Intn(maxMinutes)) * time.Minute)
	if at.After(s.now) {
		return s.now
	}
	return at
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}
