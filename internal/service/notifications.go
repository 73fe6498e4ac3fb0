package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/metrics"
	"github.com/tazhibayda/club-service/internal/queue"
	"github.com/tazhibayda/club-service/internal/ws"
)

type Notifications struct {
	store    NotificationStore
	users    UserReader
	push     Pusher
	pub      queue.Publisher
	exchange string
}

func NewNotifications(store NotificationStore, users UserReader, push Pusher, pub queue.Publisher, exchange string) *Notifications {
	if pub == nil {
		pub = queue.NewNoop()
	}
	return &Notifications{store: store, users: users, push: push, pub: pub, exchange: exchange}
}

type SendInput struct {
	RecipientID primitive.ObjectID
	ActorID     *primitive.ObjectID
	Title       string
	Message     string
	Type        domain.NotificationType
	Priority    domain.NotificationPriority
	ActionURL   string
	Related     domain.RelatedIDs
}

// SendToUser persists the notification and then pushes it to the recipient's
// live sessions. The push and the mail event are fire-and-forget: once the
// record is saved the call has succeeded.
func (n *Notifications) SendToUser(ctx context.Context, in SendInput) error {
	recipient, err := n.users.FindUserByID(ctx, in.RecipientID)
	if err != nil {
		return fmt.Errorf("lookup recipient: %w", err)
	}
	if recipient == nil {
		return fmt.Errorf("recipient %s: %w", in.RecipientID.Hex(), ErrNotFound)
	}

	// actor is decoration; a failed lookup records the notification without one
	actorID := in.ActorID
	if actorID != nil {
		actor, err := n.users.FindUserByID(ctx, *actorID)
		if err != nil || actor == nil {
			log.FromContext(ctx).Warn("notification actor lookup failed, recording without actor",
				zap.String("actor_id", actorID.Hex()), zap.Error(err))
			actorID = nil
		}
	}

	if in.Priority == "" {
		in.Priority = domain.PriorityNormal
	}
	notif := &domain.Notification{
		RecipientID: in.RecipientID,
		ActorID:     actorID,
		Title:       in.Title,
		Message:     in.Message,
		Type:        in.Type,
		Priority:    in.Priority,
		ActionURL:   in.ActionURL,
		Related:     in.Related,
	}
	if err := n.store.CreateNotification(ctx, notif); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	metrics.NotificationsSent.WithLabelValues(string(notif.Type)).Inc()

	n.push.SendToUser(recipient.Email, ws.Envelope{
		Type: "notification", Action: "NEW", Payload: notif,
	})

	if err := n.pub.Publish(ctx, n.exchange, queue.KeyNotificationCreated, queue.NotificationCreated{
		NotificationID: notif.ID.Hex(),
		RecipientEmail: recipient.Email,
		Title:          notif.Title,
		Message:        notif.Message,
		Type:           string(notif.Type),
		Priority:       string(notif.Priority),
		ActionURL:      notif.ActionURL,
		CreatedAt:      notif.CreatedAt,
	}, RequestIDFrom(ctx)); err != nil {
		log.FromContext(ctx).Warn("notification event publish failed", zap.Error(err))
	}
	return nil
}

// SendToUsers delivers per recipient and keeps going on individual failures;
// partial delivery is the intended semantics.
func (n *Notifications) SendToUsers(ctx context.Context, recipientIDs []primitive.ObjectID, in SendInput) {
	for _, id := range recipientIDs {
		in.RecipientID = id
		if err := n.SendToUser(ctx, in); err != nil {
			log.FromContext(ctx).Warn("notification skipped for recipient",
				zap.String("recipient_id", id.Hex()), zap.Error(err))
		}
	}
}

func (n *Notifications) GetMyNotifications(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, size int) ([]domain.Notification, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return n.store.ListNotifications(ctx, userID, unreadOnly, size, page*size)
}

func (n *Notifications) GetLatest(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	return n.store.ListNotifications(ctx, userID, unreadOnly, limit, 0)
}

func (n *Notifications) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return n.store.CountUnreadNotifications(ctx, userID)
}

// MarkAsRead is idempotent: marking an already-read notification succeeds
// without a second push.
func (n *Notifications) MarkAsRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	notif, err := n.store.FindNotificationByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notif == nil {
		return fmt.Errorf("notification %s: %w", notificationID.Hex(), ErrNotFound)
	}
	if notif.RecipientID != userID {
		return fmt.Errorf("notification %s: %w", notificationID.Hex(), ErrForbidden)
	}
	changed, err := n.store.MarkNotificationRead(ctx, notificationID, time.Now().UTC())
	if err != nil {
		return err
	}
	if changed {
		// let other open sessions update their badge counts
		n.pushToRecipient(ctx, userID, ws.Envelope{
			Type: "notification", Action: "READ",
			Payload: map[string]string{"id": notificationID.Hex()},
		})
	}
	return nil
}

func (n *Notifications) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := n.store.MarkAllNotificationsRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	n.pushToRecipient(ctx, userID, ws.Envelope{
		Type: "notification", Action: "READ_ALL",
		Payload: map[string]int64{"updated": count},
	})
	return count, nil
}

func (n *Notifications) pushToRecipient(ctx context.Context, userID primitive.ObjectID, env ws.Envelope) {
	u, err := n.users.FindUserByID(ctx, userID)
	if err != nil || u == nil {
		log.FromContext(ctx).Warn("push skipped, recipient lookup failed",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}
	n.push.SendToUser(u.Email, env)
}
