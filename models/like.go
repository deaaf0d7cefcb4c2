package models

import (
	"time"
)

// Like is unique per (post, user).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;uniqueIndex:uk_likes_post_user"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:uk_likes_post_user;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeStatus is returned by every like mutation.
type LikeStatus struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}
