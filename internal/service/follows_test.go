package service

import (
	"context"
	"testing"
)

func TestFollowService_FollowIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	c := f.user(t, "carol")

	for i := 0; i < 2; i++ {
		if err := f.follows.Follow(ctx, b.ID, "alice"); err != nil {
			t.Fatalf("Follow() #%d error = %v", i+1, err)
		}
	}
	_ = f.follows.Follow(ctx, c.ID, "alice")
	_ = f.follows.Follow(ctx, a.ID, "carol")

	status, err := f.follows.Status(ctx, b.ID, "alice")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	want := FollowStatus{IsFollowing: true, Followers: 2, Following: 1}
	if *status != want {
		t.Errorf("Status() = %+v, want %+v", *status, want)
	}

	reverse, _ := f.follows.Status(ctx, a.ID, "bob")
	if reverse.IsFollowing || reverse.Followers != 0 || reverse.Following != 1 {
		t.Errorf("Status(alice -> bob) = %+v", *reverse)
	}
}

func TestFollowService_Unfollow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.user(t, "alice")
	b := f.user(t, "bob")

	if err := f.follows.Unfollow(ctx, b.ID, "alice"); err != nil {
		t.Fatalf("Unfollow() without edge error = %v", err)
	}
	_ = f.follows.Follow(ctx, b.ID, "alice")
	_ = f.follows.Unfollow(ctx, b.ID, "alice")
	if err := f.follows.Unfollow(ctx, b.ID, "alice"); err != nil {
		t.Fatalf("second Unfollow() error = %v", err)
	}

	status, _ := f.follows.Status(ctx, b.ID, "alice")
	if status.IsFollowing || status.Followers != 0 {
		t.Errorf("Status() = %+v, want no edge", *status)
	}
}

func TestFollowService_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.user(t, "alice")

	wantKind(t, f.follows.Follow(ctx, a.ID, "alice"), KindValidation)
	wantKind(t, f.follows.Follow(ctx, a.ID, "nobody"), KindNotFound)
	wantKind(t, f.follows.Unfollow(ctx, a.ID, "nobody"), KindNotFound)
	_, err := f.follows.Status(ctx, a.ID, "nobody")
	wantKind(t, err, KindNotFound)
}
