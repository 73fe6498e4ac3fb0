package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/club-service/internal/domain"
)

// ErrDuplicateLike surfaces the unique (post_id, user_id) index violation so
// the service can treat a lost insert race as success instead of an error.
var ErrDuplicateLike = errors.New("like already exists")

func (s *Store) InsertLike(ctx context.Context, l *domain.Like) error {
	l.CreatedAt = time.Now().UTC()
	res, err := s.colLikes.InsertOne(ctx, l)
	if IsDup(err) {
		return ErrDuplicateLike
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid
	}
	return nil
}

// DeleteLike physically removes the row; likes are not soft-deleted.
func (s *Store) DeleteLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := s.colLikes.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) HasLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	err := s.colLikes.FindOne(ctx, bson.M{"post_id": postID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) CountLikes(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.colLikes.CountDocuments(ctx, bson.M{"post_id": postID})
}

func (s *Store) ListLikes(ctx context.Context, postID primitive.ObjectID, limit, skip int) ([]domain.Like, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	cur, err := s.colLikes.Find(ctx,
		bson.M{"post_id": postID},
		optionsFind().SetLimit(int64(limit)).SetSkip(int64(skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Like
	for cur.Next(ctx) {
		var l domain.Like
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, cur.Err()
}
