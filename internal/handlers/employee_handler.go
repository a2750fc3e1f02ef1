package handlers

import (
	"net/http"

	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmployeeHandler handles admin roster management requests
type EmployeeHandler struct {
	gameService *services.GameService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(gameService *services.GameService) *EmployeeHandler {
	return &EmployeeHandler{
		gameService: gameService,
	}
}

// ListEmployees handles GET /api/admin/games/:slug/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.gameService.Employees(c, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// AddEmployee handles POST /api/admin/games/:slug/employees
func (h *EmployeeHandler) AddEmployee(c *gin.Context) {
	var input services.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	employee, err := h.gameService.AddEmployee(c, c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee handles PATCH /api/admin/games/:slug/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID format"})
		return
	}
	var input services.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	employee, err := h.gameService.UpdateEmployee(c, c.Param("slug"), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles DELETE /api/admin/games/:slug/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID format"})
		return
	}
	if err := h.gameService.DeleteEmployee(c, c.Param("slug"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReplaceRoster handles PUT /api/admin/games/:slug/employees
func (h *EmployeeHandler) ReplaceRoster(c *gin.Context) {
	var entries []services.RosterEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	employees, err := h.gameService.ReplaceRoster(c, c.Param("slug"), entries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}
