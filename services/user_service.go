package services

import (
	"context"

	"board-api/models"
	"board-api/repositories"
)

type UserService struct {
	users *repositories.UserRepository
	posts *PostService
}

func NewUserService(users *repositories.UserRepository, posts *PostService) *UserService {
	return &UserService{users: users, posts: posts}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "User not found")
	}
	return user, nil
}

// GetUserPosts lists a user's posts newest first. viewerID may be 0 for anonymous callers.
func (s *UserService) GetUserPosts(ctx context.Context, userID uint, page, limit int, viewerID uint) (models.PostListing, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return models.PostListing{}, err
	}
	return s.posts.ListByAuthor(ctx, userID, page, limit, viewerID)
}
