package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointsEntry is one grant in a customer's points history. Entries are
// append-only; Redeemed and Expired are the only mutable fields.
type PointsEntry struct {
	Points    int       `bson:"points" json:"points"`
	Redeemed  bool      `bson:"redeemed" json:"redeemed"`
	Expired   bool      `bson:"expired" json:"expired"`
	EarnedAt  time.Time `bson:"earnedAt" json:"earnedAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// Active reports whether the entry still counts towards the balance.
func (e *PointsEntry) Active(now time.Time) bool {
	return !e.Redeemed && !e.Expired && e.ExpiresAt.After(now)
}

// Customer is an end user enrolled with one business. PointsBalance caches
// the sum of active history entries; every write that appends to
// PointsHistory adjusts the balance in the same document update so the two
// cannot diverge.
type Customer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdminID       primitive.ObjectID `bson:"adminId" json:"adminId"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	PointsBalance int                `bson:"pointsBalance" json:"pointsBalance"`
	PointsHistory []PointsEntry      `bson:"pointsHistory" json:"pointsHistory"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
