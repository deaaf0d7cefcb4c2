package controllers

import (
	"context"
	"net/http"

	"board-api/middleware"
	"board-api/models"
	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

type LikeController struct {
	likes *services.LikeService
}

func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

func (lc *LikeController) LikePost(c *gin.Context) {
	lc.handle(c, lc.likes.Add)
}

func (lc *LikeController) UnlikePost(c *gin.Context) {
	lc.handle(c, lc.likes.Remove)
}

func (lc *LikeController) ToggleLike(c *gin.Context) {
	lc.handle(c, lc.likes.Toggle)
}

func (lc *LikeController) handle(c *gin.Context, action func(ctx context.Context, postID, userID uint) (*models.LikeStatus, error)) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}

	status, err := action(c.Request.Context(), postID, middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
