package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostLike records that a user liked a post; at most one per (post, user)
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_post_likes_post_user,priority:1;column:post_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:ux_post_likes_post_user,priority:2;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for PostLike
func (PostLike) TableName() string {
	return "post_likes"
}

// BeforeCreate assigns a fresh identifier
func (l *PostLike) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CommentLike records that a user liked a comment; at most one per (comment, user)
type CommentLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_comment_likes_comment_user,priority:1;column:comment_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:ux_comment_likes_comment_user,priority:2;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for CommentLike
func (CommentLike) TableName() string {
	return "comment_likes"
}

// BeforeCreate assigns a fresh identifier
func (l *CommentLike) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
