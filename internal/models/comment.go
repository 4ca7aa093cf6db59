package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLength is the longest comment body accepted, in characters
const MaxCommentLength = 1000

// Comment belongs to a post and optionally replies to a top-level comment.
// The schema allows deeper self reference; the service layer limits
// nesting to one level.
type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;column:id"`
	PostID          uuid.UUID  `gorm:"type:uuid;not null;index;column:post_id"`
	UserID          int64      `gorm:"not null;column:user_id"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index;column:parent_comment_id"`
	Content         string     `gorm:"type:varchar(1000);not null;column:content"`
	CreatedAt       time.Time  `gorm:"not null;column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`

	// Relationships; deleting a comment removes its replies and likes
	User         *User         `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Replies      []Comment     `gorm:"foreignKey:ParentCommentID;references:ID;constraint:OnDelete:CASCADE"`
	CommentLikes []CommentLike `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a fresh identifier
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsReply reports whether the comment answers another comment
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
