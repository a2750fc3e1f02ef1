package handlers

import (
	"net/http"

	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// GameHandler handles admin game management requests
type GameHandler struct {
	gameService *services.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// ListGames handles GET /api/admin/games
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.List(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame handles GET /api/admin/games/:slug
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.gameService.Get(c, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameConfigResponse{
		Game:       game,
		NextDrawAt: h.gameService.UpcomingDraw(game),
	})
}

// CreateGame handles POST /api/admin/games
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input services.CreateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	game, err := h.gameService.Create(c, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// UpdateConfig handles PATCH /api/admin/games/:slug/config
func (h *GameHandler) UpdateConfig(c *gin.Context) {
	var input services.UpdateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	game, err := h.gameService.UpdateConfig(c, c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameConfigResponse{
		Game:       game,
		NextDrawAt: h.gameService.UpcomingDraw(game),
	})
}

// DeleteGame handles DELETE /api/admin/games/:slug
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.gameService.Delete(c, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
