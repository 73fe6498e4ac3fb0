package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/metrics"
	"github.com/tazhibayda/club-service/internal/repo"
	"github.com/tazhibayda/club-service/internal/ws"
)

type Likes struct {
	likes  LikeStore
	posts  PostReader
	notifs *Notifications
	push   Pusher
}

func NewLikes(likes LikeStore, posts PostReader, notifs *Notifications, push Pusher) *Likes {
	return &Likes{likes: likes, posts: posts, notifs: notifs, push: push}
}

// Toggle flips the (post, user) like state and reports the resulting state.
// Two concurrent toggles from a not-yet-liked state can both pass the
// existence check and race on insert; the unique index decides the winner and
// the loser's duplicate error is treated as success, so both callers see
// liked=true and exactly one row exists.
func (s *Likes) Toggle(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	post, err := s.posts.FindPostByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, fmt.Errorf("post %s: %w", postID.Hex(), ErrNotFound)
	}

	deleted, err := s.likes.DeleteLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	if deleted {
		metrics.LikeToggles.WithLabelValues("unliked").Inc()
		s.broadcastCount(ctx, post)
		return false, nil
	}

	err = s.likes.InsertLike(ctx, &domain.Like{PostID: postID, UserID: userID})
	if err != nil && !errors.Is(err, repo.ErrDuplicateLike) {
		return false, fmt.Errorf("insert like: %w", err)
	}
	metrics.LikeToggles.WithLabelValues("liked").Inc()
	s.broadcastCount(ctx, post)

	// notify only on the transition to liked, and never the liker themselves
	if post.AuthorID != userID {
		actor := userID
		postRef := post.ID
		if nerr := s.notifs.SendToUser(ctx, SendInput{
			RecipientID: post.AuthorID,
			ActorID:     &actor,
			Title:       "New like",
			Message:     "Someone liked your post",
			Type:        domain.NotifPostLiked,
			Related:     domain.RelatedIDs{ClubID: post.ClubID, PostID: &postRef},
		}); nerr != nil {
			log.FromContext(ctx).Warn("like notification failed", zap.Error(nerr))
		}
	}
	return true, nil
}

func (s *Likes) Count(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.likes.CountLikes(ctx, postID)
}

func (s *Likes) IsLikedByUser(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	return s.likes.HasLike(ctx, postID, userID)
}

func (s *Likes) ListLikes(ctx context.Context, postID primitive.ObjectID, page, size int) ([]domain.Like, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return s.likes.ListLikes(ctx, postID, size, page*size)
}

func (s *Likes) broadcastCount(ctx context.Context, post *domain.Post) {
	if s.push == nil || post.ClubID == nil {
		return
	}
	count, err := s.likes.CountLikes(ctx, post.ID)
	if err != nil {
		log.FromContext(ctx).Warn("like count for broadcast failed", zap.Error(err))
		return
	}
	s.push.BroadcastToClub(post.ClubID.Hex(), ws.Envelope{
		Type: "like", Action: "UPDATED",
		Payload: map[string]interface{}{"post_id": post.ID.Hex(), "count": count},
	})
}
