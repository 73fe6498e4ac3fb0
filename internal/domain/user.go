package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name"          json:"name"`
	Roles        []string           `bson:"roles"         json:"roles"` // "MEMBER" | "CLUB_ADMIN" | "ADMIN"
	Verified     bool               `bson:"verified"      json:"verified"`
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
}
