package controllers

import (
	"net/http"

	"board-api/middleware"
	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetUser(c *gin.Context) {
	userID, ok := utils.ParseID(c, "userId")
	if !ok {
		return
	}

	user, err := uc.users.Get(c.Request.Context(), userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) GetUserPosts(c *gin.Context) {
	userID, ok := utils.ParseID(c, "userId")
	if !ok {
		return
	}
	page, limit, fields := utils.ParsePagination(c)
	if len(fields) > 0 {
		utils.SendValidationErrors(c, fields)
		return
	}

	posts, err := uc.users.GetUserPosts(c.Request.Context(), userID, page, limit, middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
