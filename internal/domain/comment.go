package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Comment threads are stored with two pointers: ParentID is the direct parent,
// RootParentID always points at the top-level comment of the chain. Replies to
// replies keep the same RootParentID, so a thread never renders deeper than
// two levels no matter how the reply chain was built.
type Comment struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID       primitive.ObjectID  `bson:"post_id"       json:"post_id"`
	AuthorID     primitive.ObjectID  `bson:"author_id"     json:"author_id"`
	ParentID     *primitive.ObjectID `bson:"parent_id,omitempty"      json:"parent_id,omitempty"`
	RootParentID *primitive.ObjectID `bson:"root_parent_id,omitempty" json:"root_parent_id,omitempty"`
	Content      string              `bson:"content"       json:"content"`
	Edited       bool                `bson:"edited"        json:"edited"`
	Deleted      bool                `bson:"deleted"       json:"-"`
	DeletedAt    *time.Time          `bson:"deleted_at,omitempty" json:"-"`
	CreatedAt    time.Time           `bson:"created_at"    json:"created_at"`
}

type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"post_id"       json:"post_id"`
	UserID    primitive.ObjectID `bson:"user_id"       json:"user_id"`
	CreatedAt time.Time          `bson:"created_at"    json:"created_at"`
}
