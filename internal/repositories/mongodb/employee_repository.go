package mongodb

import (
	"context"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EmployeeRepository implements the repositories.EmployeeRepository interface
type EmployeeRepository struct {
	collection *mongo.Collection
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *mongo.Database) repositories.EmployeeRepository {
	return &EmployeeRepository{
		collection: db.Collection("employees"),
	}
}

// FindByGame returns a game's roster ordered by creation time
func (r *EmployeeRepository) FindByGame(ctx context.Context, slug string) ([]*models.Employee, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"gameSlug": slug}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var employees []*models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// FindByID finds an employee scoped to a game
func (r *EmployeeRepository) FindByID(ctx context.Context, slug string, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "gameSlug": slug}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	employee.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, employee)
	return err
}

// Update replaces the stored employee document
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": employee.ID, "gameSlug": employee.GameSlug}, employee)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}

// Delete removes an employee from a game's roster
func (r *EmployeeRepository) Delete(ctx context.Context, slug string, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "gameSlug": slug})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}

// ReplaceAll swaps the entire roster for a game
func (r *EmployeeRepository) ReplaceAll(ctx context.Context, slug string, employees []*models.Employee) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"gameSlug": slug}); err != nil {
		return err
	}
	if len(employees) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(employees))
	for i, employee := range employees {
		if employee.ID.IsZero() {
			employee.ID = primitive.NewObjectID()
		}
		employee.GameSlug = slug
		// Nudge timestamps so the roster keeps its insertion order under
		// the createdAt sort.
		employee.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		docs = append(docs, employee)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// SetActive updates a single employee's active flag
func (r *EmployeeRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}

// ActivateAll reactivates every employee in a game
func (r *EmployeeRepository) ActivateAll(ctx context.Context, slug string) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"gameSlug": slug}, bson.M{"$set": bson.M{"active": true}})
	return err
}

// DeleteByGame removes a game's entire roster
func (r *EmployeeRepository) DeleteByGame(ctx context.Context, slug string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"gameSlug": slug})
	return err
}
