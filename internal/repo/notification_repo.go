package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/club-service/internal/domain"
)

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now().UTC()
	n.Read = false
	n.ReadAt = nil
	res, err := s.colNotifications.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (s *Store) FindNotificationByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	var n domain.Notification
	err := s.colNotifications.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &n, err
}

func (s *Store) ListNotifications(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, limit, skip int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["read"] = false
	}
	cur, err := s.colNotifications.Find(ctx, filter,
		optionsFind().SetLimit(int64(limit)).SetSkip(int64(skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Notification
	for cur.Next(ctx) {
		var n domain.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, cur.Err()
}

func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.colNotifications.CountDocuments(ctx,
		bson.M{"recipient_id": recipientID, "read": false})
}

// MarkNotificationRead flips the read flag; returns false if it was read already.
func (s *Store) MarkNotificationRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) (bool, error) {
	res, err := s.colNotifications.UpdateOne(ctx,
		bson.M{"_id": id, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": readAt}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipientID primitive.ObjectID, readAt time.Time) (int64, error) {
	res, err := s.colNotifications.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": readAt}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
