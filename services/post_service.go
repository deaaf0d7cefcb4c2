package services

import (
	"context"
	"encoding/json"

	"board-api/models"
	"board-api/repositories"
	"board-api/utils"
)

type PostService struct {
	posts   *repositories.PostRepository
	likes   *repositories.LikeRepository
	listing *PostListingCache
}

func NewPostService(posts *repositories.PostRepository, likes *repositories.LikeRepository, listing *PostListingCache) *PostService {
	return &PostService{
		posts:   posts,
		likes:   likes,
		listing: listing,
	}
}

// List serves the main post listing through the listing cache.
func (s *PostService) List(ctx context.Context, q ListQuery) (json.RawMessage, error) {
	return s.listing.Read(ctx, q)
}

// ListByAuthor returns one author's posts newest first. These pages are not cached.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, page, limit int, viewerID uint) (models.PostListing, error) {
	posts, total, err := s.posts.Page(ctx, repositories.PostQuery{
		Offset:     utils.PageOffset(page, limit),
		Limit:      limit,
		AuthorID:   authorID,
		WithAuthor: true,
	})
	if err != nil {
		return models.PostListing{}, utils.NewDatabaseError("failed to list posts", err)
	}

	rows, err := attachStats(ctx, s.posts, s.likes, posts, viewerID)
	if err != nil {
		return models.PostListing{}, err
	}
	return models.NewPage(rows, total, page, limit), nil
}

func (s *PostService) Get(ctx context.Context, id, viewerID uint) (*models.PostWithStats, error) {
	post, err := s.posts.FindByID(ctx, id, true)
	if err != nil {
		return nil, translateDBError(err, "Post not found")
	}
	return s.withStats(ctx, post, viewerID)
}

func (s *PostService) Create(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.PostWithStats, error) {
	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, utils.NewDatabaseError("failed to create post", err)
	}
	s.listing.Invalidate(ctx, "post created")

	return s.Get(ctx, post.ID, authorID)
}

func (s *PostService) Update(ctx context.Context, id, callerID uint, req models.UpdatePostRequest) (*models.PostWithStats, error) {
	post, err := s.posts.FindByID(ctx, id, false)
	if err != nil {
		return nil, translateDBError(err, "Post not found")
	}
	if err := RequireOwner(post.AuthorID, callerID, "posts"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}

	if len(fields) > 0 {
		if err := s.posts.Update(ctx, post, fields); err != nil {
			return nil, utils.NewDatabaseError("failed to update post", err)
		}
		s.listing.Invalidate(ctx, "post updated")
	}

	return s.Get(ctx, id, callerID)
}

func (s *PostService) Delete(ctx context.Context, id, callerID uint) error {
	post, err := s.posts.FindByID(ctx, id, false)
	if err != nil {
		return translateDBError(err, "Post not found")
	}
	if err := RequireOwner(post.AuthorID, callerID, "posts"); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return translateDBError(err, "Post not found")
	}
	s.listing.Invalidate(ctx, "post deleted")
	return nil
}

func (s *PostService) withStats(ctx context.Context, post *models.Post, viewerID uint) (*models.PostWithStats, error) {
	rows, err := attachStats(ctx, s.posts, s.likes, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}
