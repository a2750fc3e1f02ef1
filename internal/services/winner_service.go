package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// WinnerService manages the winner history: bounded retention, resets,
// corrective gift edits and CSV export
type WinnerService struct {
	gameRepo     repositories.GameRepository
	employeeRepo repositories.EmployeeRepository
	winnerRepo   repositories.WinnerRepository
}

// NewWinnerService creates a new WinnerService
func NewWinnerService(
	gameRepo repositories.GameRepository,
	employeeRepo repositories.EmployeeRepository,
	winnerRepo repositories.WinnerRepository,
) *WinnerService {
	return &WinnerService{
		gameRepo:     gameRepo,
		employeeRepo: employeeRepo,
		winnerRepo:   winnerRepo,
	}
}

// RecentWinners returns the newest winners for a game, most recent first
func (s *WinnerService) RecentWinners(ctx context.Context, slug string, limit int) ([]*models.Winner, error) {
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return nil, err
	}
	winners, err := s.winnerRepo.FindRecent(ctx, slug, limit)
	if err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []*models.Winner{}
	}
	for _, winner := range winners {
		// Legacy records may predate the snapshot columns.
		if winner.Employee.FirstName == "" {
			winner.Employee.FirstName = "Former Employee"
		}
	}
	return winners, nil
}

// Trim prunes a game's history to maxCount entries, oldest first.
// maxCount <= 0 means unbounded history and is a no-op.
func (s *WinnerService) Trim(ctx context.Context, slug string, maxCount int) error {
	_, err := s.winnerRepo.TrimToLimit(ctx, slug, maxCount)
	return err
}

// Reset deletes the game's entire winner history and reactivates every
// employee. This is the only bulk undo for the no-repeat-winners
// deactivation, and it is irreversible.
func (s *WinnerService) Reset(ctx context.Context, slug string) error {
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return err
	}
	if err := s.winnerRepo.DeleteByGame(ctx, slug); err != nil {
		return fmt.Errorf("failed to clear winner history: %w", err)
	}
	if err := s.employeeRepo.ActivateAll(ctx, slug); err != nil {
		return fmt.Errorf("failed to reactivate roster: %w", err)
	}
	slog.Info("Winner history reset", "slug", slug)
	return nil
}

// ExportCSV renders the most recent limit winners as CSV. encoding/csv
// quotes embedded delimiters and quotes, so the output round-trips.
func (s *WinnerService) ExportCSV(ctx context.Context, slug string, limit int) ([]byte, error) {
	winners, err := s.RecentWinners(ctx, slug, limit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"drawnAt", "firstName", "lastName", "gift", "trigger"}); err != nil {
		return nil, err
	}
	for _, winner := range winners {
		record := []string{
			winner.DrawnAt.UTC().Format(time.RFC3339),
			winner.Employee.FirstName,
			winner.Employee.LastName,
			winner.Gift,
			winner.Trigger,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UpdateGift edits the gift recorded on a single winner
func (s *WinnerService) UpdateGift(ctx context.Context, winnerID string, gift string) (*models.Winner, error) {
	if err := s.winnerRepo.UpdateGift(ctx, winnerID, gift); err != nil {
		return nil, err
	}
	return s.winnerRepo.FindByID(ctx, winnerID)
}

// BulkUpdateGifts applies gift corrections to several winners of one game
// as a single repository write. Updates referencing winners of other games
// are rejected wholesale before anything is written.
func (s *WinnerService) BulkUpdateGifts(ctx context.Context, slug string, updates []repositories.GiftUpdate) error {
	if _, err := s.gameRepo.FindBySlug(ctx, slug); err != nil {
		return err
	}
	return s.winnerRepo.BulkUpdateGifts(ctx, slug, updates)
}
