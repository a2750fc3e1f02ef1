package mongodb

import (
	"context"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepository implements the repositories.GameRepository interface
type GameRepository struct {
	collection *mongo.Collection
}

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *mongo.Database) repositories.GameRepository {
	return &GameRepository{
		collection: db.Collection("games"),
	}
}

// FindAll returns every game ordered by creation time
func (r *GameRepository) FindAll(ctx context.Context) ([]*models.Game, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// FindBySlug finds a game by its slug
func (r *GameRepository) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": slug}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// Create creates a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	game.CreatedAt = time.Now().UTC()
	game.UpdatedAt = game.CreatedAt
	_, err := r.collection.InsertOne(ctx, game)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.NewValidation("game %q already exists", game.Slug)
	}
	return err
}

// Update replaces the stored game document
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": game.Slug}, game)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}

// SetScheduleCompleted stamps completedAt on the schedule payload via a
// targeted $set, leaving every other field untouched
func (r *GameRepository) SetScheduleCompleted(ctx context.Context, slug string, completedAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": slug}, bson.M{"$set": bson.M{
		"schedulePayload.completedAt": completedAt,
		"updatedAt":                   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}

// Delete removes a game document. Employee and winner cascades are handled
// by the service layer.
func (r *GameRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": slug})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}
