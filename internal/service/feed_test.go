package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestFeedPage(t *testing.T) {
	tests := []struct {
		name       string
		take, skip int
		expected   Page
	}{
		{"defaults when take is zero", 0, 0, Page{Take: 5, Skip: 0}},
		{"defaults when take is negative", -3, 4, Page{Take: 5, Skip: 4}},
		{"keeps valid values", 20, 40, Page{Take: 20, Skip: 40}},
		{"caps take", 500, 0, Page{Take: 100, Skip: 0}},
		{"floors skip", 10, -1, Page{Take: 10, Skip: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeedPage(tt.take, tt.skip); got != tt.expected {
				t.Errorf("FeedPage(%d, %d) = %+v, want %+v", tt.take, tt.skip, got, tt.expected)
			}
		})
	}
}

func TestCommentPage(t *testing.T) {
	tests := []struct {
		name       string
		take, skip int
		expected   Page
	}{
		{"raises zero take to one", 0, 0, Page{Take: 1, Skip: 0}},
		{"raises negative take to one", -10, 0, Page{Take: 1, Skip: 0}},
		{"keeps valid values", 20, 3, Page{Take: 20, Skip: 3}},
		{"caps take", 101, 0, Page{Take: 100, Skip: 0}},
		{"floors skip", 20, -7, Page{Take: 20, Skip: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommentPage(tt.take, tt.skip); got != tt.expected {
				t.Errorf("CommentPage(%d, %d) = %+v, want %+v", tt.take, tt.skip, got, tt.expected)
			}
		})
	}
}

func TestFeed_OwnPostWithoutFollows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	if a.ID != 1 {
		t.Fatalf("first user id = %d, want 1", a.ID)
	}
	p1 := f.post(t, a)

	feed, err := f.feed.Feed(ctx, a.ID, FeedPage(5, 0))
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("len(feed) = %d, want 1", len(feed))
	}
	got := feed[0]
	if got.ID != p1.ID {
		t.Errorf("feed[0].ID = %s, want %s", got.ID, p1.ID)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want alice", got.Username)
	}
	if got.LikesCount != 0 || got.IsLikedByCurrentUser || got.CommentsCount != 0 {
		t.Errorf("aggregates = (%d, %v, %d), want zeros", got.LikesCount, got.IsLikedByCurrentUser, got.CommentsCount)
	}
}

func TestFeed_FollowEdgeControlsVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	pa := f.post(t, a)
	pb := f.post(t, b)

	feed, err := f.feed.Feed(ctx, b.ID, FeedPage(10, 0))
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 1 || feed[0].ID != pb.ID {
		t.Fatalf("feed before follow = %v, want only bob's post", ids(feed))
	}

	if err := f.follows.Follow(ctx, b.ID, "alice"); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	feed, _ = f.feed.Feed(ctx, b.ID, FeedPage(10, 0))
	if len(feed) != 2 || feed[0].ID != pb.ID || feed[1].ID != pa.ID {
		t.Fatalf("feed after follow = %v, want [bob, alice] newest first", ids(feed))
	}

	if err := f.follows.Unfollow(ctx, b.ID, "alice"); err != nil {
		t.Fatalf("Unfollow() error = %v", err)
	}
	feed, _ = f.feed.Feed(ctx, b.ID, FeedPage(10, 0))
	if len(feed) != 1 || feed[0].ID != pb.ID {
		t.Fatalf("feed after unfollow = %v, want only bob's post", ids(feed))
	}
}

func TestFeed_Paging(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	var created []uuid.UUID
	for i := 0; i < 3; i++ {
		created = append(created, f.post(t, a).ID)
	}

	first, _ := f.feed.Feed(ctx, a.ID, FeedPage(2, 0))
	if len(first) != 2 || first[0].ID != created[2] || first[1].ID != created[1] {
		t.Errorf("first page = %v, want newest two", ids(first))
	}
	second, _ := f.feed.Feed(ctx, a.ID, FeedPage(2, 2))
	if len(second) != 1 || second[0].ID != created[0] {
		t.Errorf("second page = %v, want oldest", ids(second))
	}
	beyond, err := f.feed.Feed(ctx, a.ID, FeedPage(2, 10))
	if err != nil {
		t.Fatalf("Feed() beyond end error = %v", err)
	}
	if beyond == nil || len(beyond) != 0 {
		t.Errorf("page beyond end = %v, want empty non-nil slice", beyond)
	}
}

func TestFeed_ViewerSpecificAggregates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a)
	_ = f.follows.Follow(ctx, b.ID, "alice")

	if err := f.posts.Like(ctx, p.ID, b.ID); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	c := f.comment(t, p.ID, b, "nice", nil)
	f.comment(t, p.ID, a, "thanks", &c.ID)

	asBob, _ := f.feed.Feed(ctx, b.ID, FeedPage(5, 0))
	asAlice, _ := f.feed.Feed(ctx, a.ID, FeedPage(5, 0))

	if !asBob[0].IsLikedByCurrentUser || asAlice[0].IsLikedByCurrentUser {
		t.Errorf("liked flags = (bob %v, alice %v), want (true, false)", asBob[0].IsLikedByCurrentUser, asAlice[0].IsLikedByCurrentUser)
	}
	if asAlice[0].LikesCount != 1 {
		t.Errorf("LikesCount = %d, want 1", asAlice[0].LikesCount)
	}
	if asAlice[0].CommentsCount != 1 {
		t.Errorf("CommentsCount = %d, want 1 (replies excluded)", asAlice[0].CommentsCount)
	}
}

func TestFeedService_UserPostsAndPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	f.post(t, a)
	latest := f.post(t, a)
	f.post(t, b)

	mine, err := f.feed.UserPosts(ctx, a.ID, a.ID)
	if err != nil {
		t.Fatalf("UserPosts() error = %v", err)
	}
	if len(mine) != 2 || mine[0].ID != latest.ID {
		t.Errorf("UserPosts() = %v, want alice's two posts newest first", ids(mine))
	}

	got, err := f.feed.Post(ctx, latest.ID, b.ID)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if got.ID != latest.ID || got.Username != "alice" {
		t.Errorf("Post() = %+v", got)
	}

	_, err = f.feed.Post(ctx, uuid.New(), a.ID)
	wantKind(t, err, KindNotFound)
}

func ids(views []PostView) []uuid.UUID {
	out := make([]uuid.UUID, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}
