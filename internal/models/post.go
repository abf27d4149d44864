package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Devconnect feed. The author's name and
// avatar are denormalized at creation time so posts survive account
// renames without a join.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	AuthorName   string         `gorm:"not null" json:"name"`
	AuthorAvatar string         `json:"avatar"`
	Likes        []Like         `gorm:"foreignKey:PostID" json:"likes"`
	Comments     []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt    time.Time      `json:"date"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Like records one user's like on a post. The unique index on
// UserID+PostID backs the strict like/unlike state machine: a user is
// either in the like list or not, never twice.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// LikedBy reports whether userID is in the like list.
func (p *Post) LikedBy(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
