package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/internal/service/memstore"
)

// memCache is a map-backed ProfileCache
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return errors.New("miss")
	}
	c.hits++
	return json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// clock returns a strictly increasing time source
func clock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	mem      *memstore.Store
	feed     *FeedService
	posts    *PostService
	comments *CommentService
	follows  *FollowService
}

func newFixture() *fixture {
	mem := memstore.New()
	now := clock()

	f := &fixture{
		mem:      mem,
		feed:     NewFeedService(mem.Follows(), mem.Posts(), mem.Users()),
		posts:    NewPostService(mem.Posts(), mem.Users()),
		comments: NewCommentService(mem.Comments(), mem.Posts(), mem.Users()),
		follows:  NewFollowService(mem.Follows(), mem.Users()),
	}
	f.posts.now = now
	f.comments.now = now
	f.follows.now = now
	return f
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := f.mem.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) post(t *testing.T, owner *models.User) *PostView {
	t.Helper()
	p, err := f.posts.Create(context.Background(), owner.ID, "https://picsum.photos/seed/"+owner.Username+"/600", nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func (f *fixture) comment(t *testing.T, postID uuid.UUID, author *models.User, content string, parent *uuid.UUID) *CommentView {
	t.Helper()
	c, err := f.comments.Create(context.Background(), postID, author.ID, content, parent)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if !IsKind(err, kind) {
		t.Fatalf("error = %v, want kind %s", err, kind)
	}
}
