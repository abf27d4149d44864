package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a comment on a post. Author name/avatar are denormalized
// the same way they are on Post.
type Comment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PostID       uint           `gorm:"not null;index" json:"post_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	AuthorName   string         `gorm:"not null" json:"name"`
	AuthorAvatar string         `json:"avatar"`
	CreatedAt    time.Time      `json:"date"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
