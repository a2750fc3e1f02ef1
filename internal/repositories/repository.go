package repositories

import (
	"context"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRepository defines the interface for game config operations
type GameRepository interface {
	FindAll(ctx context.Context) ([]*models.Game, error)
	FindBySlug(ctx context.Context, slug string) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, slug string) error
	// SetScheduleCompleted stamps completedAt on the game's schedule payload
	// without rewriting the rest of the document, so a concurrent config
	// update is never clobbered by the completion marker.
	SetScheduleCompleted(ctx context.Context, slug string, completedAt time.Time) error
}

// EmployeeRepository defines the interface for roster operations
type EmployeeRepository interface {
	FindByGame(ctx context.Context, slug string) ([]*models.Employee, error)
	FindByID(ctx context.Context, slug string, id primitive.ObjectID) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, slug string, id primitive.ObjectID) error
	ReplaceAll(ctx context.Context, slug string, employees []*models.Employee) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	ActivateAll(ctx context.Context, slug string) error
	DeleteByGame(ctx context.Context, slug string) error
}

// GiftUpdate pairs a winner ID with its corrected gift value
type GiftUpdate struct {
	WinnerID string `json:"id"`
	Gift     string `json:"gift"`
}

// WinnerRepository defines the interface for winner history operations
type WinnerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Winner, error)
	FindRecent(ctx context.Context, slug string, limit int) ([]*models.Winner, error)
	RecentEmployeeIDs(ctx context.Context, slug string, limit int) ([]primitive.ObjectID, error)
	Insert(ctx context.Context, winner *models.Winner) error
	// Sequence returns the highest draw sequence number ever persisted for
	// the game; zero when no winner has been drawn. Trimming never lowers it.
	Sequence(ctx context.Context, slug string) (int64, error)
	// TrimToLimit deletes all but the most recent maxCount winners, oldest
	// first, returning the number removed. maxCount <= 0 means unbounded.
	TrimToLimit(ctx context.Context, slug string, maxCount int) (int64, error)
	DeleteByGame(ctx context.Context, slug string) error
	UpdateGift(ctx context.Context, id string, gift string) error
	// BulkUpdateGifts applies several gift corrections for one game as a
	// single write. An update referencing a winner outside the game fails
	// the whole batch before anything is modified.
	BulkUpdateGifts(ctx context.Context, slug string, updates []GiftUpdate) error
}
