package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee belongs to exactly one game's roster. Active is flipped to false
// after a win when the game disallows repeat winners, and back to true on a
// roster replace or winner-history reset.
type Employee struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GameSlug  string             `bson:"gameSlug" json:"-"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Role      string             `bson:"role" json:"role"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
