package repositories

import (
	"context"
	"fmt"
	"strings"

	"board-api/models"

	"gorm.io/gorm"
)

// PostQuery selects one page of posts, newest first.
type PostQuery struct {
	Offset int
	Limit  int

	// Search is a case-insensitive substring match on the title. Empty means no filter.
	Search string

	// AuthorID restricts the page to one author when non-zero.
	AuthorID uint

	// WithAuthor joins the author row into each post.
	WithAuthor bool
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindByID returns gorm.ErrRecordNotFound when the post does not exist.
func (r *PostRepository) FindByID(ctx context.Context, id uint, withAuthor bool) (*models.Post, error) {
	query := r.db.WithContext(ctx)
	if withAuthor {
		query = query.Joins("Author")
	}

	var post models.Post
	if err := query.Where("posts.id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count posts: %w", err)
	}
	return count > 0, nil
}

// Page returns the requested slice together with the total number of matching posts.
func (r *PostRepository) Page(ctx context.Context, q PostQuery) ([]models.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := r.filtered(ctx, q)
	if q.WithAuthor {
		query = query.Joins("Author")
	}

	var posts []models.Post
	err := query.
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	return posts, total, nil
}

func (r *PostRepository) filtered(ctx context.Context, q PostQuery) *gorm.DB {
	query := r.db.WithContext(ctx)
	if q.Search != "" {
		query = query.Where("LOWER(posts.title) LIKE LOWER(?) ESCAPE '!'", "%"+escapeLike(q.Search)+"%")
	}
	if q.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", q.AuthorID)
	}
	return query
}

// CommentCounts returns the number of comments per post for the given ids in one grouped query.
func (r *PostRepository) CommentCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return r.countBy(ctx, &models.Comment{}, postIDs)
}

// LikeCounts returns the number of likes per post for the given ids in one grouped query.
func (r *PostRepository) LikeCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return r.countBy(ctx, &models.Like{}, postIDs)
}

type postCount struct {
	PostID uint
	N      int64
}

func (r *PostRepository) countBy(ctx context.Context, model interface{}, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCount
	err := r.db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate counts: %w", err)
	}

	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	return counts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(post).Updates(fields).Error
}

// Delete removes the post with its comments and likes in one transaction.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// escapeLike quotes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
