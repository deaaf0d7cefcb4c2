package services

import (
	"context"

	"board-api/models"
	"board-api/repositories"
	"board-api/utils"
)

// attachStats decorates posts with comment counts, like counts and the viewer's like flag
// using a fixed number of batch queries regardless of how many posts there are.
func attachStats(
	ctx context.Context,
	postRepo *repositories.PostRepository,
	likeRepo *repositories.LikeRepository,
	posts []models.Post,
	viewerID uint,
) ([]models.PostWithStats, error) {
	rows := make([]models.PostWithStats, 0, len(posts))
	if len(posts) == 0 {
		return rows, nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	commentCounts, err := postRepo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, utils.NewDatabaseError("failed to count comments", err)
	}
	likeCounts, err := postRepo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, utils.NewDatabaseError("failed to count likes", err)
	}
	liked, err := likeRepo.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, utils.NewDatabaseError("failed to load likes", err)
	}

	for _, p := range posts {
		rows = append(rows, models.PostWithStats{
			Post:         p,
			CommentCount: commentCounts[p.ID],
			LikeCount:    likeCounts[p.ID],
			IsLiked:      liked[p.ID],
		})
	}
	return rows, nil
}
