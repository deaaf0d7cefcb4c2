package models

import (
	"time"
)

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:50"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Author is only populated when a query asks for it.
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostID"`
	Likes    []Like    `json:"-" gorm:"foreignKey:PostID"`
}

// PostWithStats is a post plus its derived aggregates and the viewer's like flag.
type PostWithStats struct {
	Post
	CommentCount int64 `json:"commentCount"`
	LikeCount    int64 `json:"likeCount"`
	IsLiked      bool  `json:"isLiked"`
}

// PostListing is the cached payload served by GET /posts.
type PostListing = Page[PostWithStats]
