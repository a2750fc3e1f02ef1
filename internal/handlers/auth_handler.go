package handlers

import (
	"net/http"

	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/admin/login. The password may arrive in the JSON
// body, the X-Admin-Password header, or a query parameter.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)
	password := req.Password
	if password == "" {
		password = c.GetHeader("X-Admin-Password")
	}
	if password == "" {
		password = c.Query("password")
	}

	token, err := h.authService.Login(password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
