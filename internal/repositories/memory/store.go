// Package memory provides in-memory implementations of the repository
// interfaces. They back the unit tests and the MongoDB.UseMemory mode, so
// the server can run without a mongod.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds all three collections behind one mutex
type Store struct {
	mu        sync.Mutex
	games     map[string]*models.Game
	employees []*models.Employee
	winners   []*models.Winner
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		games: make(map[string]*models.Game),
	}
}

// Games returns the GameRepository view of the store
func (s *Store) Games() repositories.GameRepository { return &gameRepo{s} }

// Employees returns the EmployeeRepository view of the store
func (s *Store) Employees() repositories.EmployeeRepository { return &employeeRepo{s} }

// Winners returns the WinnerRepository view of the store
func (s *Store) Winners() repositories.WinnerRepository { return &winnerRepo{s} }

type gameRepo struct{ s *Store }

// cloneGame copies the document and its schedule payload so callers never
// share pointers with the stored state
func cloneGame(game *models.Game) *models.Game {
	copied := *game
	if game.SchedulePayload != nil {
		payload := *game.SchedulePayload
		copied.SchedulePayload = &payload
	}
	return &copied
}

func (r *gameRepo) FindAll(_ context.Context) ([]*models.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	games := make([]*models.Game, 0, len(r.s.games))
	for _, game := range r.s.games {
		games = append(games, cloneGame(game))
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games, nil
}

func (r *gameRepo) FindBySlug(_ context.Context, slug string) (*models.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	game, ok := r.s.games[slug]
	if !ok {
		return nil, apperrors.ErrGameNotFound
	}
	return cloneGame(game), nil
}

func (r *gameRepo) Create(_ context.Context, game *models.Game) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.games[game.Slug]; ok {
		return apperrors.NewValidation("game %q already exists", game.Slug)
	}
	game.CreatedAt = time.Now().UTC()
	game.UpdatedAt = game.CreatedAt
	r.s.games[game.Slug] = cloneGame(game)
	return nil
}

func (r *gameRepo) Update(_ context.Context, game *models.Game) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.games[game.Slug]
	if !ok {
		return apperrors.ErrGameNotFound
	}
	game.CreatedAt = existing.CreatedAt
	game.UpdatedAt = time.Now().UTC()
	r.s.games[game.Slug] = cloneGame(game)
	return nil
}

func (r *gameRepo) SetScheduleCompleted(_ context.Context, slug string, completedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	game, ok := r.s.games[slug]
	if !ok {
		return apperrors.ErrGameNotFound
	}
	payload := &models.SchedulePayload{Mode: string(models.ScheduleOnce)}
	if game.SchedulePayload != nil {
		copied := *game.SchedulePayload
		payload = &copied
	}
	payload.CompletedAt = &completedAt
	game.SchedulePayload = payload
	game.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *gameRepo) Delete(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.games[slug]; !ok {
		return apperrors.ErrGameNotFound
	}
	delete(r.s.games, slug)
	return nil
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) FindByGame(_ context.Context, slug string) ([]*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var employees []*models.Employee
	for _, employee := range r.s.employees {
		if employee.GameSlug == slug {
			copied := *employee
			employees = append(employees, &copied)
		}
	}
	return employees, nil
}

func (r *employeeRepo) FindByID(_ context.Context, slug string, id primitive.ObjectID) (*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, employee := range r.s.employees {
		if employee.GameSlug == slug && employee.ID == id {
			copied := *employee
			return &copied, nil
		}
	}
	return nil, apperrors.ErrEmployeeNotFound
}

func (r *employeeRepo) Create(_ context.Context, employee *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	employee.CreatedAt = time.Now().UTC()
	copied := *employee
	r.s.employees = append(r.s.employees, &copied)
	return nil
}

func (r *employeeRepo) Update(_ context.Context, employee *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.employees {
		if existing.GameSlug == employee.GameSlug && existing.ID == employee.ID {
			copied := *employee
			copied.CreatedAt = existing.CreatedAt
			r.s.employees[i] = &copied
			return nil
		}
	}
	return apperrors.ErrEmployeeNotFound
}

func (r *employeeRepo) Delete(_ context.Context, slug string, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, employee := range r.s.employees {
		if employee.GameSlug == slug && employee.ID == id {
			r.s.employees = append(r.s.employees[:i], r.s.employees[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEmployeeNotFound
}

func (r *employeeRepo) ReplaceAll(_ context.Context, slug string, employees []*models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.employees[:0]
	for _, employee := range r.s.employees {
		if employee.GameSlug != slug {
			kept = append(kept, employee)
		}
	}
	r.s.employees = kept
	now := time.Now().UTC()
	for i, employee := range employees {
		if employee.ID.IsZero() {
			employee.ID = primitive.NewObjectID()
		}
		employee.GameSlug = slug
		employee.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		copied := *employee
		r.s.employees = append(r.s.employees, &copied)
	}
	return nil
}

func (r *employeeRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, employee := range r.s.employees {
		if employee.ID == id {
			employee.Active = active
			return nil
		}
	}
	return apperrors.ErrEmployeeNotFound
}

func (r *employeeRepo) ActivateAll(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, employee := range r.s.employees {
		if employee.GameSlug == slug {
			employee.Active = true
		}
	}
	return nil
}

func (r *employeeRepo) DeleteByGame(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.employees[:0]
	for _, employee := range r.s.employees {
		if employee.GameSlug != slug {
			kept = append(kept, employee)
		}
	}
	r.s.employees = kept
	return nil
}

type winnerRepo struct{ s *Store }

func (r *winnerRepo) FindByID(_ context.Context, id string) (*models.Winner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, winner := range r.s.winners {
		if winner.ID == id {
			copied := *winner
			return &copied, nil
		}
	}
	return nil, apperrors.ErrWinnerNotFound
}

func (r *winnerRepo) recentLocked(slug string, limit int) []*models.Winner {
	var winners []*models.Winner
	for _, winner := range r.s.winners {
		if winner.GameSlug == slug {
			winners = append(winners, winner)
		}
	}
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].DrawnAt.After(winners[j].DrawnAt)
	})
	if limit > 0 && len(winners) > limit {
		winners = winners[:limit]
	}
	return winners
}

func (r *winnerRepo) FindRecent(_ context.Context, slug string, limit int) ([]*models.Winner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recent := r.recentLocked(slug, limit)
	winners := make([]*models.Winner, 0, len(recent))
	for _, winner := range recent {
		copied := *winner
		winners = append(winners, &copied)
	}
	return winners, nil
}

func (r *winnerRepo) RecentEmployeeIDs(_ context.Context, slug string, limit int) ([]primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []primitive.ObjectID
	for _, winner := range r.recentLocked(slug, limit) {
		if winner.Employee.ID != nil {
			ids = append(ids, *winner.Employee.ID)
		}
	}
	return ids, nil
}

func (r *winnerRepo) Insert(_ context.Context, winner *models.Winner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *winner
	r.s.winners = append(r.s.winners, &copied)
	return nil
}

func (r *winnerRepo) Sequence(_ context.Context, slug string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var max int64
	for _, winner := range r.s.winners {
		if winner.GameSlug == slug && winner.Seq > max {
			max = winner.Seq
		}
	}
	return max, nil
}

func (r *winnerRepo) TrimToLimit(_ context.Context, slug string, maxCount int) (int64, error) {
	if maxCount <= 0 {
		return 0, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keep := make(map[string]bool)
	for _, winner := range r.recentLocked(slug, maxCount) {
		keep[winner.ID] = true
	}
	var deleted int64
	kept := r.s.winners[:0]
	for _, winner := range r.s.winners {
		if winner.GameSlug == slug && !keep[winner.ID] {
			deleted++
			continue
		}
		kept = append(kept, winner)
	}
	r.s.winners = kept
	return deleted, nil
}

func (r *winnerRepo) DeleteByGame(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.winners[:0]
	for _, winner := range r.s.winners {
		if winner.GameSlug != slug {
			kept = append(kept, winner)
		}
	}
	r.s.winners = kept
	return nil
}

func (r *winnerRepo) BulkUpdateGifts(_ context.Context, slug string, updates []repositories.GiftUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Resolve every target under the lock before touching anything, so the
	// batch applies all-or-nothing.
	targets := make([]*models.Winner, 0, len(updates))
	for _, update := range updates {
		var found *models.Winner
		for _, winner := range r.s.winners {
			if winner.ID == update.WinnerID && winner.GameSlug == slug {
				found = winner
				break
			}
		}
		if found == nil {
			return apperrors.ErrWinnerNotFound
		}
		targets = append(targets, found)
	}
	for i, update := range updates {
		targets[i].Gift = update.Gift
	}
	return nil
}

func (r *winnerRepo) UpdateGift(_ context.Context, id string, gift string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, winner := range r.s.winners {
		if winner.ID == id {
			winner.Gift = gift
			return nil
		}
	}
	return apperrors.ErrWinnerNotFound
}
