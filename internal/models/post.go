package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post field limits
const (
	MaxImageURLLength = 2048
	MaxCaptionLength  = 2200
)

// Post is an image shared by one user
type Post struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	UserID    int64          `gorm:"not null;index;column:user_id"`
	ImageURL  string         `gorm:"type:varchar(2048);not null;column:image_url"`
	Caption   sql.NullString `gorm:"type:varchar(2200);column:caption"`
	CreatedAt time.Time      `gorm:"not null;index;column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`

	// Relationships; deleting a post removes its likes and comments
	User      *User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	PostLikes []PostLike `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a fresh identifier
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
