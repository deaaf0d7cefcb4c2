package controllers

import (
	"net/http"

	"board-api/middleware"
	"board-api/models"
	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	resp, err := ac.auth.Login(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (ac *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendAppError(c, utils.NewUnauthorizedError("Not authenticated"))
		return
	}

	c.JSON(http.StatusOK, user)
}
