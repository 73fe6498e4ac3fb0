package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type NotificationType string

const (
	NotifPostCommented NotificationType = "POST_COMMENTED"
	NotifPostReplied   NotificationType = "POST_REPLIED"
	NotifPostLiked     NotificationType = "POST_LIKED"
	NotifAnnouncement  NotificationType = "ANNOUNCEMENT"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

type Notification struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID   `bson:"recipient_id"  json:"recipient_id"`
	ActorID     *primitive.ObjectID  `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	Title       string               `bson:"title"         json:"title"`
	Message     string               `bson:"message"       json:"message"`
	Type        NotificationType     `bson:"type"          json:"type"`
	Priority    NotificationPriority `bson:"priority"      json:"priority"`
	Read        bool                 `bson:"read"          json:"read"`
	ReadAt      *time.Time           `bson:"read_at,omitempty" json:"read_at,omitempty"`
	ActionURL   string               `bson:"action_url,omitempty" json:"action_url,omitempty"`
	Related     RelatedIDs           `bson:"related,omitempty"    json:"related,omitempty"`
	CreatedAt   time.Time            `bson:"created_at"    json:"created_at"`
}

// RelatedIDs carries optional pointers back to the entity that triggered the
// notification, so clients can build deep links without extra lookups.
type RelatedIDs struct {
	ClubID  *primitive.ObjectID `bson:"club_id,omitempty"  json:"club_id,omitempty"`
	PostID  *primitive.ObjectID `bson:"post_id,omitempty"  json:"post_id,omitempty"`
	EventID *primitive.ObjectID `bson:"event_id,omitempty" json:"event_id,omitempty"`
	NewsID  *primitive.ObjectID `bson:"news_id,omitempty"  json:"news_id,omitempty"`
}
