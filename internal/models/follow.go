package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge: Follower sees Followee's posts in their feed
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	FollowerID int64     `gorm:"not null;index;uniqueIndex:ux_follows_pair,priority:1;check:chk_follows_no_self,follower_id <> followee_id;column:follower_id"`
	FolloweeID int64     `gorm:"not null;index;uniqueIndex:ux_follows_pair,priority:2;column:followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// BeforeCreate assigns a fresh identifier
func (f *Follow) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
