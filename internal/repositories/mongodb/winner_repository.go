package mongodb

import (
	"context"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) repositories.WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// FindByID finds a winner by ID
func (r *WinnerRepository) FindByID(ctx context.Context, id string) (*models.Winner, error) {
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&winner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrWinnerNotFound
		}
		return nil, err
	}
	return &winner, nil
}

// FindRecent returns the most recent winners for a game, newest first
func (r *WinnerRepository) FindRecent(ctx context.Context, slug string, limit int) ([]*models.Winner, error) {
	opts := options.Find().
		SetSort(bson.M{"drawnAt": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"gameSlug": slug}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// RecentEmployeeIDs returns the employee ids of the most recent winners,
// skipping winners whose employee has since been deleted
func (r *WinnerRepository) RecentEmployeeIDs(ctx context.Context, slug string, limit int) ([]primitive.ObjectID, error) {
	winners, err := r.FindRecent(ctx, slug, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(winners))
	for _, winner := range winners {
		if winner.Employee.ID != nil {
			ids = append(ids, *winner.Employee.ID)
		}
	}
	return ids, nil
}

// Insert creates a new winner record
func (r *WinnerRepository) Insert(ctx context.Context, winner *models.Winner) error {
	_, err := r.collection.InsertOne(ctx, winner)
	return err
}

// Sequence returns the highest persisted draw sequence number for a game
func (r *WinnerRepository) Sequence(ctx context.Context, slug string) (int64, error) {
	opts := options.FindOne().SetSort(bson.M{"seq": -1})
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"gameSlug": slug}, opts).Decode(&winner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return winner.Seq, nil
}

// TrimToLimit deletes all but the newest maxCount winners for a game
func (r *WinnerRepository) TrimToLimit(ctx context.Context, slug string, maxCount int) (int64, error) {
	if maxCount <= 0 {
		return 0, nil
	}
	keep, err := r.FindRecent(ctx, slug, maxCount)
	if err != nil {
		return 0, err
	}
	keepIDs := make([]string, 0, len(keep))
	for _, winner := range keep {
		keepIDs = append(keepIDs, winner.ID)
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"gameSlug": slug,
		"_id":      bson.M{"$nin": keepIDs},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByGame removes a game's entire winner history
func (r *WinnerRepository) DeleteByGame(ctx context.Context, slug string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"gameSlug": slug})
	return err
}

// BulkUpdateGifts applies a batch of gift corrections in one BulkWrite.
// Every referenced winner must belong to the game or the batch is rejected
// up front.
func (r *WinnerRepository) BulkUpdateGifts(ctx context.Context, slug string, updates []repositories.GiftUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	ids := make([]string, 0, len(updates))
	seen := make(map[string]bool, len(updates))
	for _, update := range updates {
		if !seen[update.WinnerID] {
			seen[update.WinnerID] = true
			ids = append(ids, update.WinnerID)
		}
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"_id":      bson.M{"$in": ids},
		"gameSlug": slug,
	})
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return apperrors.ErrWinnerNotFound
	}

	writes := make([]mongo.WriteModel, 0, len(updates))
	for _, update := range updates {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": update.WinnerID, "gameSlug": slug}).
			SetUpdate(bson.M{"$set": bson.M{"gift": update.Gift}}))
	}
	_, err = r.collection.BulkWrite(ctx, writes)
	return err
}

// UpdateGift edits the gift field on an existing winner record
func (r *WinnerRepository) UpdateGift(ctx context.Context, id string, gift string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"gift": gift}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrWinnerNotFound
	}
	return nil
}
