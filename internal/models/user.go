package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the vestigial account entity of the legacy signup flow. It is not
// wired into the marketplace itself; only POST /api/auth/signup touches it.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const DefaultUserRole = "director"
