package models

import (
	"time"
)

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"not null;size:500"`
	PostID    uint      `json:"postId" gorm:"not null;index"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
