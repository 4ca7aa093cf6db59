package seeder

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/picfeed/picfeed/internal/models"
)

type fakeUsers struct {
	existing int64
	rows     []*models.User
}

func (f *fakeUsers) Count(context.Context) (int64, error) { return f.existing, nil }

func (f *fakeUsers) CreateBatch(_ context.Context, users []*models.User, _ int) error {
	for _, u := range users {
		u.ID = int64(len(f.rows) + 1)
		f.rows = append(f.rows, u)
	}
	return nil
}

type fakeFollows struct {
	rows []*models.Follow
	err  error
}

func (f *fakeFollows) InsertBatch(_ context.Context, follows []*models.Follow, _ int) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, follows...)
	return nil
}

type fakePosts struct {
	rows  []*models.Post
	likes []*models.PostLike
}

func (f *fakePosts) CreateBatch(_ context.Context, posts []*models.Post, _ int) error {
	f.rows = append(f.rows, posts...)
	return nil
}

func (f *fakePosts) InsertLikesBatch(_ context.Context, likes []*models.PostLike, _ int) error {
	f.likes = append(f.likes, likes...)
	return nil
}

type fakeComments struct {
	rows  []*models.Comment
	likes []*models.CommentLike
}

func (f *fakeComments) CreateBatch(_ context.Context, comments []*models.Comment, _ int) error {
	f.rows = append(f.rows, comments...)
	return nil
}

func (f *fakeComments) InsertLikesBatch(_ context.Context, likes []*models.CommentLike, _ int) error {
	f.likes = append(f.likes, likes...)
	return nil
}

type fakes struct {
	users    *fakeUsers
	follows  *fakeFollows
	posts    *fakePosts
	comments *fakeComments
}

func newSeeder(f *fakes) *Seeder {
	s := New(f.users, f.follows, f.posts, f.comments, 42)
	s.hash = func(p string) (string, error) { return "hashed:" + p, nil }
	return s
}

func newFakes() *fakes {
	return &fakes{
		users:    &fakeUsers{},
		follows:  &fakeFollows{},
		posts:    &fakePosts{},
		comments: &fakeComments{},
	}
}

func TestRun_SkipsWhenUsersExist(t *testing.T) {
	f := newFakes()
	f.users.existing = 3

	summary, err := newSeeder(f).Run(context.Background(), Options{Users: 10, PostsPerUser: 1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !summary.Skipped {
		t.Error("expected the run to be skipped")
	}
	if len(f.users.rows) != 0 || len(f.posts.rows) != 0 {
		t.Error("nothing should be written when users exist")
	}
}

func TestRun_Users(t *testing.T) {
	f := newFakes()
	if _, err := newSeeder(f).Run(context.Background(), Options{Users: 200, PostsPerUser: 0}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	handle := regexp.MustCompile(`^[a-z0-9_]+$`)
	seen := make(map[string]bool)
	verified := 0
	now := time.Now().UTC()
	for _, u := range f.users.rows {
		if seen[u.Username] {
			t.Errorf("duplicate username %q", u.Username)
		}
		seen[u.Username] = true
		if !handle.MatchString(u.Username) || len(u.Username) > 50 {
			t.Errorf("username %q is not a valid handle", u.Username)
		}
		if u.Email != u.Username+"@example.com" {
			t.Errorf("email = %q for %q", u.Email, u.Username)
		}
		if u.PasswordHash != "hashed:"+DefaultPassword {
			t.Errorf("password hash = %q", u.PasswordHash)
		}
		if u.CreatedAt.After(now) || u.CreatedAt.Before(now.AddDate(-1, 0, -1)) {
			t.Errorf("created_at %v outside the last year", u.CreatedAt)
		}
		if u.IsEmailVerified {
			verified++
		}
	}
	if verified < 120 || verified > 190 {
		t.Errorf("verified = %d of 200, want roughly 80%%", verified)
	}
}

func TestRun_Follows(t *testing.T) {
	tests := []struct {
		name  string
		users int
		lo    int
		hi    int
	}{
		{"small population follows everyone else", 8, 7, 7},
		{"large population follows 10 to 100", 150, 10, 100},
		{"single user follows nobody", 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakes()
			summary, err := newSeeder(f).Run(context.Background(), Options{Users: tt.users})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if summary.Follows != len(f.follows.rows) {
				t.Errorf("summary follows = %d, stored %d", summary.Follows, len(f.follows.rows))
			}

			pairs := make(map[[2]int64]bool)
			perFollower := make(map[int64]int)
			for _, fl := range f.follows.rows {
				if fl.FollowerID == fl.FolloweeID {
					t.Fatalf("user %d follows themselves", fl.FollowerID)
				}
				key := [2]int64{fl.FollowerID, fl.FolloweeID}
				if pairs[key] {
					t.Fatalf("duplicate follow %v", key)
				}
				pairs[key] = true
				perFollower[fl.FollowerID]++
			}
			for _, u := range f.users.rows {
				if n := perFollower[u.ID]; n < tt.lo || n > tt.hi {
					t.Errorf("user %d follows %d, want %d..%d", u.ID, n, tt.lo, tt.hi)
				}
			}
		})
	}
}

func TestRun_Content(t *testing.T) {
	f := newFakes()
	summary, err := newSeeder(f).Run(context.Background(), Options{Users: 40, PostsPerUser: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(f.posts.rows) != 80 || summary.Posts != 80 {
		t.Fatalf("posts = %d (summary %d), want 80", len(f.posts.rows), summary.Posts)
	}
	if summary.PostLikes != len(f.posts.likes) || summary.Comments != len(f.comments.rows) || summary.CommentLikes != len(f.comments.likes) {
		t.Errorf("summary %+v does not match stored rows", summary)
	}

	posts := make(map[uuid.UUID]*models.Post)
	for _, p := range f.posts.rows {
		posts[p.ID] = p
		if !strings.HasPrefix(p.ImageURL, "https://picsum.photos/seed/img") {
			t.Errorf("image url = %q", p.ImageURL)
		}
	}

	type likeKey struct {
		post uuid.UUID
		user int64
	}
	likes := make(map[likeKey]bool)
	for _, l := range f.posts.likes {
		key := likeKey{l.PostID, l.UserID}
		if likes[key] {
			t.Fatalf("duplicate like on post %s by %d", l.PostID, l.UserID)
		}
		likes[key] = true
		if l.CreatedAt.Before(posts[l.PostID].CreatedAt) {
			t.Errorf("like predates its post")
		}
	}

	stored := make(map[uuid.UUID]*models.Comment)
	for _, c := range f.comments.rows {
		if _, ok := posts[c.PostID]; !ok {
			t.Fatalf("comment %s on unknown post", c.ID)
		}
		if c.ParentCommentID != nil {
			parent, ok := stored[*c.ParentCommentID]
			if !ok {
				t.Fatalf("reply %s precedes or lacks its parent", c.ID)
			}
			if parent.IsReply() {
				t.Errorf("reply %s answers another reply", c.ID)
			}
			if parent.PostID != c.PostID {
				t.Errorf("reply %s is on a different post than its parent", c.ID)
			}
		}
		stored[c.ID] = c
	}
}

func TestRun_PropagatesWriteErrors(t *testing.T) {
	f := newFakes()
	f.follows.err = errors.New("connection reset")

	if _, err := newSeeder(f).Run(context.Background(), Options{Users: 20}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestNew_SeedMakesRunsRepeatable(t *testing.T) {
	run := func(seed int64) *fakes {
		f := newFakes()
		s := New(f.users, f.follows, f.posts, f.comments, seed)
		s.hash = func(p string) (string, error) { return "hashed:" + p, nil }
		if _, err := s.Run(context.Background(), Options{Users: 30, PostsPerUser: 1}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return f
	}

	a, b, c := run(7), run(7), run(8)

	for i := range a.users.rows {
		if a.users.rows[i].Username != b.users.rows[i].Username {
			t.Fatalf("user %d: %q vs %q with the same seed", i, a.users.rows[i].Username, b.users.rows[i].Username)
		}
	}
	if len(a.follows.rows) != len(b.follows.rows) || len(a.comments.rows) != len(b.comments.rows) {
		t.Errorf("same seed gave %d/%d follows and %d/%d comments",
			len(a.follows.rows), len(b.follows.rows), len(a.comments.rows), len(b.comments.rows))
	}

	differs := false
	for i := range a.users.rows {
		if a.users.rows[i].Username != c.users.rows[i].Username {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("a different seed produced the same usernames")
	}
}

func TestAfter_NeverInTheFuture(t *testing.T) {
	s := newSeeder(newFakes())
	for i := 0; i < 100; i++ {
		if got := s.after(s.now.Add(-time.Minute), 10000); got.After(s.now) {
			t.Fatalf("after() = %v, later than now %v", got, s.now)
		}
	}
}
