package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortunewheel/wheel-backend/api/routes"
	"github.com/fortunewheel/wheel-backend/internal/config"
	"github.com/fortunewheel/wheel-backend/internal/handlers"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"github.com/fortunewheel/wheel-backend/internal/repositories/memory"
	mongorepo "github.com/fortunewheel/wheel-backend/internal/repositories/mongodb"
	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/fortunewheel/wheel-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	var (
		gameRepo     repositories.GameRepository
		employeeRepo repositories.EmployeeRepository
		winnerRepo   repositories.WinnerRepository
	)
	if cfg.MongoDB.UseMemory {
		slog.Warn("Running against the in-memory store; data will not survive a restart")
		store := memory.NewStore()
		gameRepo = store.Games()
		employeeRepo = store.Employees()
		winnerRepo = store.Winners()
	} else {
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		gameRepo = mongorepo.NewGameRepository(db)
		employeeRepo = mongorepo.NewEmployeeRepository(db)
		winnerRepo = mongorepo.NewWinnerRepository(db)
	}

	// Initialize services
	calculator := services.NewScheduleCalculator(cfg.Draw.DefaultTimezone)
	drawService := services.NewDrawService(gameRepo, employeeRepo, winnerRepo, cfg.Draw.WinnerHistoryLimit, cfg.Draw.RepeatCooldown)
	registry := services.NewScheduleRegistry(gameRepo, drawService, calculator, cfg.Draw.DefaultTimezone)
	gameService := services.NewGameService(gameRepo, employeeRepo, winnerRepo, registry, calculator, cfg.Draw.DefaultCron, cfg.Draw.DefaultTimezone)
	winnerService := services.NewWinnerService(gameRepo, employeeRepo, winnerRepo)
	authService := services.NewAuthService(cfg)

	// Register timers for every persisted game. Schedules are rebuilt from
	// config on startup, so they survive restarts.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := registry.ScheduleAll(startupCtx); err != nil {
		cancelStartup()
		log.Fatalf("Failed to register game schedules: %v", err)
	}
	cancelStartup()
	defer registry.Stop()

	router := routes.SetupRouter(cfg, authService, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Spectator: handlers.NewSpectatorHandler(gameService, winnerService, drawService),
		Game:      handlers.NewGameHandler(gameService),
		Employee:  handlers.NewEmployeeHandler(gameService),
		Winner:    handlers.NewWinnerHandler(winnerService, cfg.Draw.WinnerHistoryLimit),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
