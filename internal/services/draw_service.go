package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/metrics"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// DrawService selects winners under the repeat-avoidance policy and keeps
// the winner history bookkeeping consistent
type DrawService struct {
	gameRepo     repositories.GameRepository
	employeeRepo repositories.EmployeeRepository
	winnerRepo   repositories.WinnerRepository
	historyLimit int
	cooldown     int
}

// NewDrawService creates a new DrawService
func NewDrawService(
	gameRepo repositories.GameRepository,
	employeeRepo repositories.EmployeeRepository,
	winnerRepo repositories.WinnerRepository,
	historyLimit int,
	cooldown int,
) *DrawService {
	return &DrawService{
		gameRepo:     gameRepo,
		employeeRepo: employeeRepo,
		winnerRepo:   winnerRepo,
		historyLimit: historyLimit,
		cooldown:     cooldown,
	}
}

// Draw executes one draw for a game and returns the recorded winner.
// It fails with apperrors.ErrGameNotFound for an unknown slug and with
// apperrors.ErrNoEligibleEmployees when the roster is empty.
func (s *DrawService) Draw(ctx context.Context, slug string, trigger string) (winner *models.Winner, err error) {
	defer func() { metrics.RecordDraw(trigger, err) }()

	game, err := s.gameRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	employee, err := s.selectEmployee(ctx, game)
	if err != nil {
		return nil, err
	}

	seq, err := s.winnerRepo.Sequence(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to read winner sequence: %w", err)
	}

	employeeID := employee.ID
	winner = &models.Winner{
		ID:       uuid.NewString(),
		GameSlug: slug,
		Employee: models.WinnerEmployee{
			ID:        &employeeID,
			FirstName: employee.FirstName,
			LastName:  employee.LastName,
			Avatar:    employee.Avatar,
		},
		DrawnAt: time.Now().UTC(),
		Trigger: trigger,
		Gift:    nextGift(game, seq),
		Seq:     seq + 1,
	}

	if err := s.winnerRepo.Insert(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to record winner: %w", err)
	}

	if !game.AllowRepeatWinners {
		if err := s.employeeRepo.SetActive(ctx, employee.ID, false); err != nil {
			slog.Error("Failed to deactivate drawn employee", "error", err, "slug", slug, "employeeId", employee.ID.Hex())
		}
	}

	if deleted, err := s.winnerRepo.TrimToLimit(ctx, slug, s.historyLimit); err != nil {
		slog.Error("Failed to trim winner history", "error", err, "slug", slug)
	} else if deleted > 0 {
		slog.Debug("Trimmed winner history", "slug", slug, "deleted", deleted)
	}

	slog.Info("Winner drawn",
		"slug", slug,
		"trigger", trigger,
		"employeeId", employee.ID.Hex(),
		"gift", winner.Gift,
		"seq", winner.Seq,
	)
	return winner, nil
}

// selectEmployee picks uniformly at random from the eligible pool
func (s *DrawService) selectEmployee(ctx context.Context, game *models.Game) (*models.Employee, error) {
	roster, err := s.employeeRepo.FindByGame(ctx, game.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	base := roster
	if !game.AllowRepeatWinners {
		base = nil
		for _, employee := range roster {
			if employee.Active {
				base = append(base, employee)
			}
		}
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("%w for %s", apperrors.ErrNoEligibleEmployees, game.Slug)
	}

	recentIDs, err := s.winnerRepo.RecentEmployeeIDs(ctx, game.Slug, s.cooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent winners: %w", err)
	}
	recent := make(map[primitive.ObjectID]bool, len(recentIDs))
	for _, id := range recentIDs {
		recent[id] = true
	}

	pool := cooldownPool(base, recent)
	return pool[rand.Intn(len(pool))], nil
}

// cooldownPool applies the repeat-avoidance policy: recent winners are
// excluded only while the base roster is strictly larger than the recent-id
// set. When the roster is too small for the exclusion to leave anyone, the
// whole base roster is used instead, so a draw always succeeds whenever at
// least one eligible employee exists.
func cooldownPool(base []*models.Employee, recent map[primitive.ObjectID]bool) []*models.Employee {
	if len(base) <= len(recent) {
		return base
	}
	var pool []*models.Employee
	for _, employee := range base {
		if !recent[employee.ID] {
			pool = append(pool, employee)
		}
	}
	if len(pool) == 0 {
		return base
	}
	return pool
}

// nextGift rotates through the game's gift list by draw sequence number.
// seq is the number of draws already performed, so the first draw gets
// gifts[0].
func nextGift(game *models.Game, seq int64) string {
	gifts := game.GiftList()
	if len(gifts) == 0 {
		return ""
	}
	return gifts[int(seq%int64(len(gifts)))]
}
