package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fortunewheel/wheel-backend/api/routes"
	"github.com/fortunewheel/wheel-backend/internal/config"
	"github.com/fortunewheel/wheel-backend/internal/handlers"
	"github.com/fortunewheel/wheel-backend/internal/repositories/memory"
	"github.com/fortunewheel/wheel-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*gin.Engine, *services.ScheduleRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "4000", AllowedHosts: []string{"localhost:3000"}},
		Admin:  config.AdminConfig{Password: "hunter2"},
		JWT:    config.JWTConfig{ExpiresIn: 3600},
		Draw: config.DrawConfig{
			DefaultCron:        "0 0 13 * * FRI",
			DefaultTimezone:    "America/Toronto",
			WinnerHistoryLimit: 40,
			RepeatCooldown:     3,
		},
	}

	store := memory.NewStore()
	gameRepo, employeeRepo, winnerRepo := store.Games(), store.Employees(), store.Winners()

	calculator := services.NewScheduleCalculator(cfg.Draw.DefaultTimezone)
	drawService := services.NewDrawService(gameRepo, employeeRepo, winnerRepo, cfg.Draw.WinnerHistoryLimit, cfg.Draw.RepeatCooldown)
	registry := services.NewScheduleRegistry(gameRepo, drawService, calculator, cfg.Draw.DefaultTimezone)
	t.Cleanup(registry.Stop)
	gameService := services.NewGameService(gameRepo, employeeRepo, winnerRepo, registry, calculator, cfg.Draw.DefaultCron, cfg.Draw.DefaultTimezone)
	winnerService := services.NewWinnerService(gameRepo, employeeRepo, winnerRepo)
	authService := services.NewAuthService(cfg)

	router := routes.SetupRouter(cfg, authService, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Spectator: handlers.NewSpectatorHandler(gameService, winnerService, drawService),
		Game:      handlers.NewGameHandler(gameService),
		Employee:  handlers.NewEmployeeHandler(gameService),
		Winner:    handlers.NewWinnerHandler(winnerService, cfg.Draw.WinnerHistoryLimit),
	})
	return router, registry
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestAPI(t)
	w := doRequest(router, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLogin(t *testing.T) {
	router, _ := newTestAPI(t)

	w := doRequest(router, http.MethodPost, "/api/admin/login", "", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/admin/login", "", `{"password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
}

func TestAdminRoutesRequireCredentials(t *testing.T) {
	router, _ := newTestAPI(t)

	w := doRequest(router, http.MethodGet, "/api/admin/games", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/admin/games", "bogus-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The raw admin password works as a bearer token.
	w = doRequest(router, http.MethodGet, "/api/admin/games", "hunter2", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGameLifecycleOverHTTP(t *testing.T) {
	router, registry := newTestAPI(t)
	token := "hunter2"

	// Create a game.
	w := doRequest(router, http.MethodPost, "/api/admin/games", token,
		`{"slug":"wheel","allowRepeatWinners":true,"gifts":"Mug,Hat"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, registry.ActiveCount())

	// Replace the roster.
	w = doRequest(router, http.MethodPut, "/api/admin/games/wheel/employees", token,
		`[{"firstName":"Alice"},{"firstName":"Bob"}]`)
	require.Equal(t, http.StatusOK, w.Code)

	// Spectators see the roster without credentials.
	w = doRequest(router, http.MethodGet, "/api/wheel/employees", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var employees []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &employees))
	assert.Len(t, employees, 2)

	// Spin the wheel.
	w = doRequest(router, http.MethodPost, "/api/wheel/spin", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var winner map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &winner))
	assert.Equal(t, "Mug", winner["gift"])
	assert.Equal(t, "manual", winner["trigger"])

	// Winners feed shows the draw.
	w = doRequest(router, http.MethodGet, "/api/wheel/winners", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var winners []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &winners))
	require.Len(t, winners, 1)

	// Public config includes the next draw instant.
	w = doRequest(router, http.MethodGet, "/api/wheel/config", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfgResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfgResp))
	assert.Equal(t, "wheel", cfgResp["slug"])
	assert.NotNil(t, cfgResp["nextDrawAt"])

	// CSV export is an attachment.
	w = doRequest(router, http.MethodGet, "/api/admin/games/wheel/winners/export", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "drawnAt,firstName,lastName,gift,trigger")

	// Reset clears the history.
	w = doRequest(router, http.MethodPost, "/api/admin/games/wheel/winners/reset", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodGet, "/api/wheel/winners", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	winners = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &winners))
	assert.Empty(t, winners)

	// Delete cancels the schedule.
	w = doRequest(router, http.MethodDelete, "/api/admin/games/wheel", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, registry.ActiveCount())

	w = doRequest(router, http.MethodGet, "/api/wheel/config", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpinValidationErrors(t *testing.T) {
	router, _ := newTestAPI(t)
	token := "hunter2"

	w := doRequest(router, http.MethodPost, "/api/admin/games", token, `{"slug":"empty"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Spinning with no roster is a client error, not a server fault.
	w = doRequest(router, http.MethodPost, "/api/empty/spin", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/missing/spin", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfigPatchReschedules(t *testing.T) {
	router, registry := newTestAPI(t)
	token := "hunter2"

	w := doRequest(router, http.MethodPost, "/api/admin/games", token, `{"slug":"wheel"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, registry.ActiveCount())

	w = doRequest(router, http.MethodPatch, "/api/admin/games/wheel/config", token,
		`{"schedulePayload":{"mode":"repeat","frequency":"day","timeOfDay":"14:30"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30 14 * * *", resp["cron"])
	assert.Equal(t, 1, registry.ActiveCount())
}
