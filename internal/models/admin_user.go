package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUser is the owner of a business and its reward policy.
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BusinessName string             `bson:"businessName" json:"businessName"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
