package handlers

import (
	"errors"
	"net/http"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// respondError maps service errors onto HTTP statuses: not-found family to
// 404, validation and empty-pool errors to 400, everything else to an opaque
// 500 with the detail kept in the server log.
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err) || errors.Is(err, apperrors.ErrNoEligibleEmployees):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
