package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trackit-be/internal/models"
	"trackit-be/internal/service"
)

type AuthController struct {
	authService service.AuthService
	log         *zap.SugaredLogger
}

func NewAuthController(authService service.AuthService, log *zap.SugaredLogger) *AuthController {
	return &AuthController{
		authService: authService,
		log:         log,
	}
}

// Signup handles POST /auth/signup
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name, valid email and a password of at least 6 characters are required")
		return
	}

	if err := ac.authService.Signup(c.Request.Context(), &req); err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Signup successful"})
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ForgotPassword handles POST /auth/forgot-password
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "A valid email is required")
		return
	}

	if err := ac.authService.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Reset link sent"})
}
