package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Club struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name"          json:"name"`
	Description string               `bson:"description"   json:"description"`
	OwnerID     primitive.ObjectID   `bson:"owner_id"      json:"owner_id"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids"    json:"member_ids"`
	LogoURL     string               `bson:"logo_url"      json:"logo_url"`
	CreatedAt   time.Time            `bson:"created_at"    json:"created_at"`
}

type Post struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClubID    *primitive.ObjectID `bson:"club_id,omitempty" json:"club_id,omitempty"` // nil for personal posts
	AuthorID  primitive.ObjectID  `bson:"author_id"     json:"author_id"`
	Title     string              `bson:"title"         json:"title"`
	Content   string              `bson:"content"       json:"content"`
	ImageURLs []string            `bson:"image_urls"    json:"image_urls"`
	CreatedAt time.Time           `bson:"created_at"    json:"created_at"`
}
