package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/ws"
)

// Domain failure taxonomy. The HTTP layer maps these to status codes;
// anything else that escapes a service is an external-service failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// The services consume narrow views of repo.Store so tests can swap in fakes.

type UserReader interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

type PostReader interface {
	FindPostByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *domain.Comment) error
	FindCommentByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	UpdateCommentContent(ctx context.Context, id primitive.ObjectID, content string) error
	ActiveChildIDs(ctx context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	SoftDeleteComments(ctx context.Context, ids []primitive.ObjectID, deletedAt time.Time) (int64, error)
	ListTopLevelComments(ctx context.Context, postID primitive.ObjectID, limit, skip int) ([]domain.Comment, error)
	ListReplies(ctx context.Context, rootID primitive.ObjectID) ([]domain.Comment, error)
	ListAllComments(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error)
}

type LikeStore interface {
	InsertLike(ctx context.Context, l *domain.Like) error
	DeleteLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	HasLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	CountLikes(ctx context.Context, postID primitive.ObjectID) (int64, error)
	ListLikes(ctx context.Context, postID primitive.ObjectID, limit, skip int) ([]domain.Like, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	FindNotificationByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error)
	ListNotifications(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, limit, skip int) ([]domain.Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	MarkNotificationRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, recipientID primitive.ObjectID, readAt time.Time) (int64, error)
}

// Pusher is the live channel: per-user sessions and per-club rooms.
type Pusher interface {
	SendToUser(handle string, env ws.Envelope)
	BroadcastToClub(clubID string, env ws.Envelope)
}
