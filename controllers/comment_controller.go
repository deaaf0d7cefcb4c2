package controllers

import (
	"net/http"

	"board-api/middleware"
	"board-api/models"
	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

func (cc *CommentController) GetComments(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}
	page, limit, fields := utils.ParsePagination(c)
	if len(fields) > 0 {
		utils.SendValidationErrors(c, fields)
		return
	}

	comments, err := cc.comments.ListByPost(c.Request.Context(), postID, page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	comment, err := cc.comments.Create(c.Request.Context(), postID, middleware.CurrentUserID(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (cc *CommentController) UpdateComment(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}
	commentID, ok := utils.ParseID(c, "commentId")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	comment, err := cc.comments.Update(c.Request.Context(), postID, commentID, middleware.CurrentUserID(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}
	commentID, ok := utils.ParseID(c, "commentId")
	if !ok {
		return
	}

	if err := cc.comments.Delete(c.Request.Context(), postID, commentID, middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
