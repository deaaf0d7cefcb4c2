package services

import (
	"context"
	"fmt"

	"board-api/repositories"
	"board-api/utils"
)

// RequireOwner rejects a mutation of resource unless the caller is its owner.
func RequireOwner(ownerID, callerID uint, resource string) error {
	if ownerID != callerID {
		return utils.NewForbiddenError(fmt.Sprintf("You can only modify your own %s", resource))
	}
	return nil
}

// requirePost aborts post-scoped operations on a missing post before anything is written.
func requirePost(ctx context.Context, posts *repositories.PostRepository, postID uint) error {
	exists, err := posts.Exists(ctx, postID)
	if err != nil {
		return utils.NewDatabaseError("failed to look up post", err)
	}
	if !exists {
		return utils.NewNotFoundError("Post not found")
	}
	return nil
}
