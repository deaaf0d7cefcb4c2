package services

import (
	"context"
	"errors"

	"board-api/models"
	"board-api/repositories"
	"board-api/utils"

	"gorm.io/gorm"
)

type LikeService struct {
	likes   *repositories.LikeRepository
	posts   *repositories.PostRepository
	listing *PostListingCache
}

func NewLikeService(likes *repositories.LikeRepository, posts *repositories.PostRepository, listing *PostListingCache) *LikeService {
	return &LikeService{
		likes:   likes,
		posts:   posts,
		listing: listing,
	}
}

// Add likes the post. Liking an already liked post is a no-op.
func (s *LikeService) Add(ctx context.Context, postID, userID uint) (*models.LikeStatus, error) {
	if err := requirePost(ctx, s.posts, postID); err != nil {
		return nil, err
	}
	if err := s.add(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.status(ctx, postID, true)
}

// Remove unlikes the post. Removing a like that does not exist is a no-op.
func (s *LikeService) Remove(ctx context.Context, postID, userID uint) (*models.LikeStatus, error) {
	if err := requirePost(ctx, s.posts, postID); err != nil {
		return nil, err
	}
	if err := s.remove(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.status(ctx, postID, false)
}

// Toggle flips the caller's like on the post.
func (s *LikeService) Toggle(ctx context.Context, postID, userID uint) (*models.LikeStatus, error) {
	if err := requirePost(ctx, s.posts, postID); err != nil {
		return nil, err
	}

	_, err := s.likes.Find(ctx, postID, userID)
	switch {
	case err == nil:
		if err := s.remove(ctx, postID, userID); err != nil {
			return nil, err
		}
		return s.status(ctx, postID, false)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.add(ctx, postID, userID); err != nil {
			return nil, err
		}
		return s.status(ctx, postID, true)
	default:
		return nil, utils.NewDatabaseError("failed to look up like", err)
	}
}

func (s *LikeService) add(ctx context.Context, postID, userID uint) error {
	_, err := s.likes.Find(ctx, postID, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewDatabaseError("failed to look up like", err)
	}

	if err := s.likes.Create(ctx, &models.Like{PostID: postID, UserID: userID}); err != nil {
		// A concurrent request inserted the same row first; the post is liked either way.
		if !errors.Is(err, gorm.ErrDuplicatedKey) && !s.liked(ctx, postID, userID) {
			return utils.NewDatabaseError("failed to like post", err)
		}
		return nil
	}
	s.listing.Invalidate(ctx, "like added")
	return nil
}

func (s *LikeService) remove(ctx context.Context, postID, userID uint) error {
	removed, err := s.likes.Delete(ctx, postID, userID)
	if err != nil {
		return utils.NewDatabaseError("failed to unlike post", err)
	}
	if removed {
		s.listing.Invalidate(ctx, "like removed")
	}
	return nil
}

func (s *LikeService) liked(ctx context.Context, postID, userID uint) bool {
	_, err := s.likes.Find(ctx, postID, userID)
	return err == nil
}

// status re-reads the like count so concurrent likes by other users are reflected.
func (s *LikeService) status(ctx context.Context, postID uint, liked bool) (*models.LikeStatus, error) {
	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return nil, utils.NewDatabaseError("failed to count likes", err)
	}
	return &models.LikeStatus{Liked: liked, LikeCount: count}, nil
}
