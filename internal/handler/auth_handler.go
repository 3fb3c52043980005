package handler

import (
	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/middleware"
	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/util"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, user, "User registered successfully")
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	authResp, err := h.authService.Login(c.Request.Context(), &req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, authResp)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	authResp, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, authResp)
}

// Logout revokes the caller's access token and, if sent, the refresh token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken, _ := middleware.BearerToken(c)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Logged out successfully")
}

// GetMe returns current user info
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), c.GetString(util.ContextUserID))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, user)
}
