package models

import (
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:20"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Posts    []Post    `json:"-" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"-" gorm:"foreignKey:AuthorID"`
	Likes    []Like    `json:"-" gorm:"foreignKey:UserID"`
}
