package repositories

import (
	"context"
	"fmt"

	"board-api/models"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID loads the comment with its author. Returns gorm.ErrRecordNotFound when missing.
func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Joins("Author").Where("comments.id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// PageByPost lists a post's comments oldest first.
func (r *CommentRepository) PageByPost(ctx context.Context, postID uint, offset, limit int) ([]models.Comment, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var comments []models.Comment
	err = r.db.WithContext(ctx).
		Joins("Author").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, comment *models.Comment, content string) error {
	return r.db.WithContext(ctx).Model(comment).Update("content", content).Error
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
