package controllers

import (
	"net/http"
	"unicode/utf8"

	"board-api/middleware"
	"board-api/models"
	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

const maxSearchLength = 100

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// GetPosts serves the cached listing. The body is written as stored so that a cache hit
// returns exactly the bytes computed on the miss.
func (pc *PostController) GetPosts(c *gin.Context) {
	page, limit, fields := utils.ParsePagination(c)
	search := c.Query("search")
	if utf8.RuneCountInString(search) > maxSearchLength {
		fields = append(fields, utils.ValidationError{Field: "search", Message: "must be at most 100 characters"})
	}
	if len(fields) > 0 {
		utils.SendValidationErrors(c, fields)
		return
	}

	payload, err := pc.posts.List(c.Request.Context(), services.ListQuery{
		Page:     page,
		Limit:    limit,
		Search:   search,
		ViewerID: middleware.CurrentUserID(c),
	})
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) GetPost(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}

	post, err := pc.posts.Get(c.Request.Context(), postID, middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}
	var req models.UpdatePostRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	post, err := pc.posts.Update(c.Request.Context(), postID, middleware.CurrentUserID(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	postID, ok := utils.ParseID(c, "postId")
	if !ok {
		return
	}

	if err := pc.posts.Delete(c.Request.Context(), postID, middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
