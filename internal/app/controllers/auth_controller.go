package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/middleware"
)

// AuthController handles admin authentication
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login authenticates an admin
// @Summary Admin login
// @Description With local auth send email and password. With a federated identity provider send id_token; it is returned as the bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing credentials"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or token"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/admin/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
