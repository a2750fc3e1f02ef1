package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Draw trigger kinds
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// WinnerEmployee is the denormalized snapshot taken at draw time so history
// survives roster edits and deletions. EmployeeID is nil once the employee
// has been removed.
type WinnerEmployee struct {
	ID        *primitive.ObjectID `bson:"id,omitempty" json:"id"`
	FirstName string              `bson:"firstName" json:"firstName"`
	LastName  string              `bson:"lastName" json:"lastName"`
	Avatar    string              `bson:"avatar" json:"avatar"`
}

// Winner records one draw result. Seq is the per-game draw sequence number
// used for gift rotation; it is monotonic and unaffected by history trimming.
type Winner struct {
	ID       string         `bson:"_id" json:"id"`
	GameSlug string         `bson:"gameSlug" json:"-"`
	Employee WinnerEmployee `bson:"employee" json:"employee"`
	DrawnAt  time.Time      `bson:"drawnAt" json:"drawnAt"`
	Trigger  string         `bson:"trigger" json:"trigger"`
	Gift     string         `bson:"gift" json:"gift"`
	Seq      int64          `bson:"seq" json:"-"`
}
