package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WinnerHandler handles admin winner history requests
type WinnerHandler struct {
	winnerService *services.WinnerService
	historyLimit  int
}

// NewWinnerHandler creates a new WinnerHandler
func NewWinnerHandler(winnerService *services.WinnerService, historyLimit int) *WinnerHandler {
	return &WinnerHandler{
		winnerService: winnerService,
		historyLimit:  historyLimit,
	}
}

// ResetWinners handles POST /api/admin/games/:slug/winners/reset. It clears
// the history and reactivates the whole roster.
func (h *WinnerHandler) ResetWinners(c *gin.Context) {
	if err := h.winnerService.Reset(c, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

type giftUpdateRequest struct {
	Gift string `json:"gift"`
}

// UpdateGift handles PATCH /api/admin/games/:slug/winners/:id/gift
func (h *WinnerHandler) UpdateGift(c *gin.Context) {
	var req giftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	winner, err := h.winnerService.UpdateGift(c, c.Param("id"), req.Gift)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winner)
}

type bulkGiftRequest struct {
	Updates []repositories.GiftUpdate `json:"updates"`
}

// BulkUpdateGifts handles PATCH /api/admin/games/:slug/winners/gifts
func (h *WinnerHandler) BulkUpdateGifts(c *gin.Context) {
	var req bulkGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.winnerService.BulkUpdateGifts(c, c.Param("slug"), req.Updates); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req.Updates)})
}

// ExportWinners handles GET /api/admin/games/:slug/winners/export, serving
// the history as a CSV download
func (h *WinnerHandler) ExportWinners(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.historyLimit)))
	if err != nil || limit <= 0 {
		limit = h.historyLimit
	}
	data, err := h.winnerService.ExportCSV(c, c.Param("slug"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("winners-%s-%s.csv", c.Param("slug"), time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
