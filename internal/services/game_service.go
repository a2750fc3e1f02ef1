package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Scheduler is the registry surface the game service needs: every schedule
// mutation must re-register the game's timer
type Scheduler interface {
	Schedule(game *models.Game)
	Unschedule(slug string)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// GameService manages game configs and rosters, keeping the schedule
// registry in sync with every mutation
type GameService struct {
	gameRepo        repositories.GameRepository
	employeeRepo    repositories.EmployeeRepository
	winnerRepo      repositories.WinnerRepository
	scheduler       Scheduler
	calculator      *ScheduleCalculator
	defaultCron     string
	defaultTimezone string
}

// NewGameService creates a new GameService
func NewGameService(
	gameRepo repositories.GameRepository,
	employeeRepo repositories.EmployeeRepository,
	winnerRepo repositories.WinnerRepository,
	scheduler Scheduler,
	calculator *ScheduleCalculator,
	defaultCron string,
	defaultTimezone string,
) *GameService {
	return &GameService{
		gameRepo:        gameRepo,
		employeeRepo:    employeeRepo,
		winnerRepo:      winnerRepo,
		scheduler:       scheduler,
		calculator:      calculator,
		defaultCron:     defaultCron,
		defaultTimezone: defaultTimezone,
	}
}

// CreateGameInput carries the fields accepted when creating a game
type CreateGameInput struct {
	Slug               string                  `json:"slug"`
	Cron               string                  `json:"cron"`
	Timezone           string                  `json:"timezone"`
	ScheduleType       string                  `json:"scheduleType"`
	SchedulePayload    *models.SchedulePayload `json:"schedulePayload"`
	AllowRepeatWinners bool                    `json:"allowRepeatWinners"`
	Gifts              string                  `json:"gifts"`
}

// UpdateGameInput carries the patchable game config fields; nil means
// leave unchanged
type UpdateGameInput struct {
	Cron               *string                 `json:"cron"`
	Timezone           *string                 `json:"timezone"`
	ScheduleType       *string                 `json:"scheduleType"`
	SchedulePayload    *models.SchedulePayload `json:"schedulePayload"`
	AllowRepeatWinners *bool                   `json:"allowRepeatWinners"`
	Gifts              *string                 `json:"gifts"`
}

// List returns every game
func (s *GameService) List(ctx context.Context) ([]*models.Game, error) {
	games, err := s.gameRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []*models.Game{}
	}
	return games, nil
}

// Get returns a single game by slug
func (s *GameService) Get(ctx context.Context, slug string) (*models.Game, error) {
	return s.gameRepo.FindBySlug(ctx, strings.ToLower(slug))
}

// Create validates and persists a new game, then registers its timer
func (s *GameService) Create(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, apperrors.NewValidation("slug is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperrors.NewValidation("slug may only contain lowercase letters, digits and hyphens")
	}

	scheduleType := resolveScheduleType(input.ScheduleType)
	if err := input.SchedulePayload.Validate(scheduleType); err != nil {
		return nil, err
	}

	timezone := input.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	game := &models.Game{
		Slug:               slug,
		Name:               slug,
		Cron:               s.resolveCron(scheduleType, input.Cron, input.SchedulePayload),
		Timezone:           timezone,
		AllowRepeatWinners: input.AllowRepeatWinners,
		Gifts:              input.Gifts,
		ScheduleType:       scheduleType,
		SchedulePayload:    input.SchedulePayload,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, err
	}

	s.scheduler.Schedule(game)
	slog.Info("Game created", "slug", slug, "scheduleType", scheduleType)
	return game, nil
}

// UpdateConfig patches a game's configuration and re-registers its timer so
// the live schedule always matches the persisted config
func (s *GameService) UpdateConfig(ctx context.Context, slug string, input UpdateGameInput) (*models.Game, error) {
	game, err := s.gameRepo.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}

	if input.ScheduleType != nil {
		game.ScheduleType = resolveScheduleType(*input.ScheduleType)
	}
	if input.SchedulePayload != nil {
		game.SchedulePayload = input.SchedulePayload
	}
	if input.Timezone != nil && *input.Timezone != "" {
		game.Timezone = *input.Timezone
	}
	if input.AllowRepeatWinners != nil {
		game.AllowRepeatWinners = *input.AllowRepeatWinners
	}
	if input.Gifts != nil {
		game.Gifts = *input.Gifts
	}

	if err := game.SchedulePayload.Validate(game.ScheduleTypeOrDefault()); err != nil {
		return nil, err
	}

	switch {
	case input.Cron != nil && *input.Cron != "":
		game.Cron = *input.Cron
	case input.SchedulePayload != nil || input.ScheduleType != nil:
		game.Cron = s.resolveCron(game.ScheduleTypeOrDefault(), "", game.SchedulePayload)
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, err
	}

	s.scheduler.Schedule(game)
	slog.Info("Game config updated", "slug", game.Slug, "scheduleType", game.ScheduleTypeOrDefault(), "cron", game.Cron)
	return game, nil
}

// Delete removes a game, its roster and its history, and cancels its timer
func (s *GameService) Delete(ctx context.Context, slug string) error {
	slug = strings.ToLower(slug)
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return err
	}
	s.scheduler.Unschedule(slug)
	if err := s.winnerRepo.DeleteByGame(ctx, slug); err != nil {
		return fmt.Errorf("failed to delete winner history: %w", err)
	}
	if err := s.employeeRepo.DeleteByGame(ctx, slug); err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}
	if err := s.gameRepo.Delete(ctx, slug); err != nil {
		return err
	}
	slog.Info("Game deleted", "slug", slug)
	return nil
}

// UpcomingDraw computes the game's next fire instant; nil when there is
// none or the schedule cannot be parsed
func (s *GameService) UpcomingDraw(game *models.Game) *time.Time {
	next, err := s.calculator.NextFireTime(game, time.Now())
	if err != nil {
		slog.Error("Unable to compute next draw", "slug", game.Slug, "error", err)
		return nil
	}
	if next.IsZero() {
		return nil
	}
	return &next
}

func (s *GameService) resolveCron(scheduleType models.ScheduleType, cronExpr string, payload *models.SchedulePayload) string {
	if scheduleType == models.ScheduleOnce {
		if cronExpr != "" {
			return cronExpr
		}
		return models.RunOncePlaceholderCron
	}
	if cronExpr != "" {
		return cronExpr
	}
	if derived, ok := payload.Cron(); ok {
		return derived
	}
	return s.defaultCron
}

func resolveScheduleType(value string) models.ScheduleType {
	if value == string(models.ScheduleOnce) {
		return models.ScheduleOnce
	}
	return models.ScheduleRepeat
}

// --- Roster management ---

// EmployeeInput carries the fields accepted when adding a single employee
type EmployeeInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
}

// UpdateEmployeeInput carries the patchable employee fields
type UpdateEmployeeInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
	Avatar    *string `json:"avatar"`
	Active    *bool   `json:"active"`
}

// RosterEntry is one line of a bulk roster replace
type RosterEntry struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Employees returns a game's roster
func (s *GameService) Employees(ctx context.Context, slug string) ([]*models.Employee, error) {
	slug = strings.ToLower(slug)
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.FindByGame(ctx, slug)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	return employees, nil
}

// AddEmployee appends one employee to a game's roster
func (s *GameService) AddEmployee(ctx context.Context, slug string, input EmployeeInput) (*models.Employee, error) {
	slug = strings.ToLower(slug)
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, apperrors.NewValidation("firstName is required")
	}
	employee := &models.Employee{
		GameSlug:  slug,
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Role:      input.Role,
		Avatar:    input.Avatar,
		Active:    true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateEmployee patches a single roster entry
func (s *GameService) UpdateEmployee(ctx context.Context, slug string, id primitive.ObjectID, input UpdateEmployeeInput) (*models.Employee, error) {
	slug = strings.ToLower(slug)
	employee, err := s.employeeRepo.FindByID(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		firstName := strings.TrimSpace(*input.FirstName)
		if firstName == "" {
			return nil, apperrors.NewValidation("firstName cannot be empty")
		}
		employee.FirstName = firstName
	}
	if input.LastName != nil {
		employee.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.Avatar != nil {
		employee.Avatar = *input.Avatar
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee removes one roster entry
func (s *GameService) DeleteEmployee(ctx context.Context, slug string, id primitive.ObjectID) error {
	slug = strings.ToLower(slug)
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, slug, id)
}

// ReplaceRoster swaps the whole roster. Entries without a first name are
// dropped; duplicate first+last name pairs are rejected. Every replaced
// employee starts active.
func (s *GameService) ReplaceRoster(ctx context.Context, slug string, entries []RosterEntry) ([]*models.Employee, error) {
	slug = strings.ToLower(slug)
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var employees []*models.Employee
	for _, entry := range entries {
		firstName := strings.TrimSpace(entry.FirstName)
		if firstName == "" {
			continue
		}
		lastName := strings.TrimSpace(entry.LastName)
		key := strings.ToLower(firstName + "\x00" + lastName)
		if seen[key] {
			return nil, apperrors.NewValidation("duplicate employee %q", strings.TrimSpace(firstName+" "+lastName))
		}
		seen[key] = true
		employees = append(employees, &models.Employee{
			GameSlug:  slug,
			FirstName: firstName,
			LastName:  lastName,
			Active:    true,
		})
	}

	if err := s.employeeRepo.ReplaceAll(ctx, slug, employees); err != nil {
		return nil, err
	}
	slog.Info("Roster replaced", "slug", slug, "employees", len(employees))
	return s.Employees(ctx, slug)
}
