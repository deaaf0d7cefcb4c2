package repositories

import (
	"context"
	"fmt"

	"board-api/models"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Find returns gorm.ErrRecordNotFound when the user has not liked the post.
func (r *LikeRepository) Find(ctx context.Context, postID, userID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete removes the (post, user) like and reports whether a row existed.
func (r *LikeRepository) Delete(ctx context.Context, postID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// LikedPostIDs returns which of postIDs the user has liked, in one query.
func (r *LikeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load liked posts: %w", err)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
