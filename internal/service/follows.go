package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/models"
	"github.com/picfeed/picfeed/pkg/logging"
	"github.com/picfeed/picfeed/pkg/telemetry"
)

// FollowService manages directed follow edges between users
type FollowService struct {
	follows FollowStore
	users   UserStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewFollowService creates a new follow service
func NewFollowService(follows FollowStore, users UserStore) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
		logger:  logging.WithComponent("follow-service"),
		now:     time.Now,
	}
}

func (s *FollowService) target(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	return user, nil
}

// Follow makes followerID follow the named user; following twice is a no-op
func (s *FollowService) Follow(ctx context.Context, followerID int64, username string) error {
	target, err := s.target(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return Validation("You cannot follow yourself")
	}

	created, err := s.follows.Insert(ctx, &models.Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		FolloweeID: target.ID,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	if created {
		telemetry.RecordAction(ctx, "user_followed")
		s.logger.Info("User followed", zap.Int64("follower_id", followerID), zap.Int64("followee_id", target.ID))
	}
	return nil
}

// Unfollow removes the edge from followerID to the named user if present
func (s *FollowService) Unfollow(ctx context.Context, followerID int64, username string) error {
	target, err := s.target(ctx, username)
	if err != nil {
		return err
	}

	removed, err := s.follows.Delete(ctx, followerID, target.ID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	if removed {
		telemetry.RecordAction(ctx, "user_unfollowed")
		s.logger.Info("User unfollowed", zap.Int64("follower_id", followerID), zap.Int64("followee_id", target.ID))
	}
	return nil
}

// Status reports whether viewerID follows the named user and that user's counts
func (s *FollowService) Status(ctx context.Context, viewerID int64, username string) (*FollowStatus, error) {
	target, err := s.target(ctx, username)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow: %w", err)
	}
	followers, err := s.follows.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	followees, err := s.follows.CountFollowing(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}

	return &FollowStatus{
		IsFollowing: following,
		Followers:   followers,
		Following:   followees,
	}, nil
}
