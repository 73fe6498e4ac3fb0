package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/club-service/internal/domain"
)

func (s *Store) CreateClub(ctx context.Context, c *domain.Club) error {
	c.CreatedAt = time.Now().UTC()
	if len(c.MemberIDs) == 0 {
		c.MemberIDs = []primitive.ObjectID{c.OwnerID}
	}
	res, err := s.colClubs.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (s *Store) FindClubByID(ctx context.Context, id primitive.ObjectID) (*domain.Club, error) {
	var c domain.Club
	err := s.colClubs.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &c, err
}

func (s *Store) AddClubMember(ctx context.Context, clubID, userID primitive.ObjectID) error {
	res, err := s.colClubs.UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$addToSet": bson.M{"member_ids": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClubIDsForUser returns the clubs whose rooms a connecting client should join.
func (s *Store) ClubIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.colClubs.Find(ctx,
		bson.M{"member_ids": userID},
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
