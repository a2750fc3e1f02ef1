package middleware

import (
	"net/http"
	"strings"

	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
)

const bearerSchema = "Bearer "

// AdminAuthMiddleware guards the admin surface. The bearer token may be a
// session JWT from the login endpoint or the raw admin password itself, so
// scripted clients can skip the login round-trip.
func AdminAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		token := authHeader[len(bearerSchema):]
		if authService.ValidateToken(token) == nil || authService.VerifyPassword(token) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	}
}
