package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/picfeed/picfeed/internal/models"
)

// PostView is a post enriched for one viewer
type PostView struct {
	ID                   uuid.UUID `json:"id"`
	UserID               int64     `json:"userId"`
	Username             string    `json:"username"`
	ImageURL             string    `json:"imageUrl"`
	Caption              *string   `json:"caption"`
	CreatedAt            time.Time `json:"createdAt"`
	LikesCount           int64     `json:"likesCount"`
	IsLikedByCurrentUser bool      `json:"isLikedByCurrentUser"`
	CommentsCount        int64     `json:"commentsCount"`
}

// CommentView is a comment or reply enriched for one viewer
type CommentView struct {
	ID                   uuid.UUID  `json:"id"`
	PostID               uuid.UUID  `json:"postId"`
	UserID               int64      `json:"userId"`
	Username             string     `json:"username"`
	Content              string     `json:"content"`
	CreatedAt            time.Time  `json:"createdAt"`
	LikesCount           int64      `json:"likesCount"`
	IsLikedByCurrentUser bool       `json:"isLikedByCurrentUser"`
	RepliesCount         int64      `json:"repliesCount"`
	ParentCommentID      *uuid.UUID `json:"parentCommentId"`
}

// CommentList is one page of comments plus the total available
type CommentList struct {
	Total int64         `json:"total"`
	Items []CommentView `json:"items"`
}

// FollowStatus describes the viewer's relationship to another user
type FollowStatus struct {
	IsFollowing bool  `json:"isFollowing"`
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
}

// Profile is the account data exposed over the API
type Profile struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Session is returned after a successful register or login
type Session struct {
	Token      string    `json:"token"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Expiration time.Time `json:"expiration"`
}

func newProfile(u *models.User) *Profile {
	return &Profile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

func newPostView(p *models.Post, author *models.User, stats models.PostStats) PostView {
	v := PostView{
		ID:                   p.ID,
		UserID:               p.UserID,
		ImageURL:             p.ImageURL,
		CreatedAt:            p.CreatedAt,
		LikesCount:           stats.LikesCount,
		IsLikedByCurrentUser: stats.LikedByViewer,
		CommentsCount:        stats.CommentsCount,
	}
	if author != nil {
		v.Username = author.Username
	}
	if p.Caption.Valid {
		caption := p.Caption.String
		v.Caption = &caption
	}
	return v
}

func newCommentView(c *models.Comment, author *models.User, stats models.CommentStats) CommentView {
	v := CommentView{
		ID:                   c.ID,
		PostID:               c.PostID,
		UserID:               c.UserID,
		Content:              c.Content,
		CreatedAt:            c.CreatedAt,
		LikesCount:           stats.LikesCount,
		IsLikedByCurrentUser: stats.LikedByViewer,
		RepliesCount:         stats.RepliesCount,
		ParentCommentID:      c.ParentCommentID,
	}
	if author != nil {
		v.Username = author.Username
	}
	return v
}
