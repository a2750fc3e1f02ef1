package routes

import (
	"github.com/fortunewheel/wheel-backend/internal/config"
	"github.com/fortunewheel/wheel-backend/internal/handlers"
	"github.com/fortunewheel/wheel-backend/internal/middleware"
	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every HTTP handler wired at the application root
type Handlers struct {
	Auth      *handlers.AuthHandler
	Spectator *handlers.SpectatorHandler
	Game      *handlers.GameHandler
	Employee  *handlers.EmployeeHandler
	Winner    *handlers.WinnerHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, authService *services.AuthService, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Health check and metrics
	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public spectator routes
	public := router.Group("/api")
	{
		public.GET("/:slug/employees", h.Spectator.GetEmployees)
		public.GET("/:slug/winners", h.Spectator.GetWinners)
		public.GET("/:slug/config", h.Spectator.GetConfig)
		public.POST("/:slug/spin", h.Spectator.Spin)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.POST("/login", h.Auth.Login)

	protected := admin.Group("")
	protected.Use(middleware.AdminAuthMiddleware(authService))
	{
		games := protected.Group("/games")
		{
			games.GET("", h.Game.ListGames)
			games.POST("", h.Game.CreateGame)
			games.GET("/:slug", h.Game.GetGame)
			games.DELETE("/:slug", h.Game.DeleteGame)
			games.PATCH("/:slug/config", h.Game.UpdateConfig)

			games.GET("/:slug/employees", h.Employee.ListEmployees)
			games.POST("/:slug/employees", h.Employee.AddEmployee)
			games.PUT("/:slug/employees", h.Employee.ReplaceRoster)
			games.PATCH("/:slug/employees/:id", h.Employee.UpdateEmployee)
			games.DELETE("/:slug/employees/:id", h.Employee.DeleteEmployee)

			games.POST("/:slug/winners/reset", h.Winner.ResetWinners)
			games.GET("/:slug/winners/export", h.Winner.ExportWinners)
			games.PATCH("/:slug/winners/gifts", h.Winner.BulkUpdateGifts)
			games.PATCH("/:slug/winners/:id/gift", h.Winner.UpdateGift)
		}
	}

	return router
}
