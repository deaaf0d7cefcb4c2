package services

import (
	"context"

	"board-api/models"
	"board-api/repositories"
	"board-api/utils"
)

type CommentService struct {
	comments *repositories.CommentRepository
	posts    *repositories.PostRepository
	listing  *PostListingCache
}

func NewCommentService(comments *repositories.CommentRepository, posts *repositories.PostRepository, listing *PostListingCache) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		listing:  listing,
	}
}

func (s *CommentService) Create(ctx context.Context, postID, authorID uint, req models.CommentRequest) (*models.Comment, error) {
	if err := requirePost(ctx, s.posts, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  req.Content,
		PostID:   postID,
		AuthorID: authorID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, utils.NewDatabaseError("failed to create comment", err)
	}
	s.listing.Invalidate(ctx, "comment created")

	created, err := s.comments.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, translateDBError(err, "Comment not found")
	}
	return created, nil
}

// ListByPost pages through a post's comments oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint, page, limit int) (models.Page[models.Comment], error) {
	if err := requirePost(ctx, s.posts, postID); err != nil {
		return models.Page[models.Comment]{}, err
	}

	comments, total, err := s.comments.PageByPost(ctx, postID, utils.PageOffset(page, limit), limit)
	if err != nil {
		return models.Page[models.Comment]{}, utils.NewDatabaseError("failed to list comments", err)
	}
	return models.NewPage(comments, total, page, limit), nil
}

// Update edits a comment's content. Comment text is not part of the listing, so the listing
// cache is left alone.
func (s *CommentService) Update(ctx context.Context, postID, commentID, callerID uint, req models.CommentRequest) (*models.Comment, error) {
	comment, err := s.find(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(comment.AuthorID, callerID, "comments"); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(ctx, comment, req.Content); err != nil {
		return nil, utils.NewDatabaseError("failed to update comment", err)
	}
	comment.Content = req.Content
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, postID, commentID, callerID uint) error {
	comment, err := s.find(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if err := RequireOwner(comment.AuthorID, callerID, "comments"); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return translateDBError(err, "Comment not found")
	}
	s.listing.Invalidate(ctx, "comment deleted")
	return nil
}

// find loads a comment and checks it belongs to the post named in the path.
func (s *CommentService) find(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, translateDBError(err, "Comment not found")
	}
	if comment.PostID != postID {
		return nil, utils.NewNotFoundError("Comment not found")
	}
	return comment, nil
}
