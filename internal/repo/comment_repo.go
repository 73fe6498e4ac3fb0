package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/club-service/internal/domain"
)

func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	c.CreatedAt = time.Now().UTC()
	res, err := s.colComments.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (s *Store) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var c domain.Comment
	err := s.colComments.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &c, err
}

func (s *Store) UpdateCommentContent(ctx context.Context, id primitive.ObjectID, content string) error {
	res, err := s.colComments.UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": bson.M{"content": content, "edited": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveChildIDs returns the ids of not-yet-deleted comments whose direct
// parent is one of the given ids. Used by the cascade delete, which walks the
// tree level by level over parent_id, not root_parent_id.
func (s *Store) ActiveChildIDs(ctx context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.colComments.Find(ctx,
		bson.M{"parent_id": bson.M{"$in": parentIDs}, "deleted": false},
		optionsFind().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.ID)
	}
	return out, cur.Err()
}

// SoftDeleteComments marks the whole batch with one common deleted_at stamp.
func (s *Store) SoftDeleteComments(ctx context.Context, ids []primitive.ObjectID, deletedAt time.Time) (int64, error) {
	res, err := s.colComments.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "deleted_at": deletedAt}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) ListTopLevelComments(ctx context.Context, postID primitive.ObjectID, limit, skip int) ([]domain.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return s.findComments(ctx,
		bson.M{"post_id": postID, "parent_id": nil, "deleted": false},
		limit, skip)
}

// ListReplies returns the flat reply list of a top-level comment: every reply
// in the chain carries the same root_parent_id regardless of what it replied to.
func (s *Store) ListReplies(ctx context.Context, rootID primitive.ObjectID) ([]domain.Comment, error) {
	return s.findComments(ctx,
		bson.M{"root_parent_id": rootID, "deleted": false},
		200, 0)
}

func (s *Store) ListAllComments(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	return s.findComments(ctx,
		bson.M{"post_id": postID, "deleted": false},
		1000, 0)
}

func (s *Store) findComments(ctx context.Context, filter bson.M, limit, skip int) ([]domain.Comment, error) {
	cur, err := s.colComments.Find(ctx, filter,
		optionsFind().SetLimit(int64(limit)).SetSkip(int64(skip)).
			SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Comment
	for cur.Next(ctx) {
		var c domain.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}
