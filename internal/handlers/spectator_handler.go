package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// defaultWinnersLimit caps the public winners feed; the spectator wheel only
// shows a short recent list.
const defaultWinnersLimit = 6

// SpectatorHandler handles the public, unauthenticated game surface
type SpectatorHandler struct {
	gameService   *services.GameService
	winnerService *services.WinnerService
	drawService   *services.DrawService
}

// NewSpectatorHandler creates a new SpectatorHandler
func NewSpectatorHandler(
	gameService *services.GameService,
	winnerService *services.WinnerService,
	drawService *services.DrawService,
) *SpectatorHandler {
	return &SpectatorHandler{
		gameService:   gameService,
		winnerService: winnerService,
		drawService:   drawService,
	}
}

// GetEmployees handles GET /api/:slug/employees
func (h *SpectatorHandler) GetEmployees(c *gin.Context) {
	employees, err := h.gameService.Employees(c, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetWinners handles GET /api/:slug/winners
func (h *SpectatorHandler) GetWinners(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultWinnersLimit)))
	if err != nil || limit <= 0 {
		limit = defaultWinnersLimit
	}
	winners, err := h.winnerService.RecentWinners(c, c.Param("slug"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}

type gameConfigResponse struct {
	*models.Game
	NextDrawAt *time.Time `json:"nextDrawAt"`
}

// GetConfig handles GET /api/:slug/config
func (h *SpectatorHandler) GetConfig(c *gin.Context) {
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

// Spin handles POST /api/:slug/spin, the manual draw trigger
func (h *SpectatorHandler) Spin(c *gin.Context) {
	winner, err := h.drawService.Draw(c, c.Param("slug"), models.TriggerManual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winner)
}
