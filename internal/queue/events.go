package queue

import "time"

// Routing keys on the topic exchange.
const (
	KeyNotificationCreated = "notification.created"
	KeyUserRegistered      = "user.registered"
)

// NotificationCreated is consumed by the mail worker to deliver the email
// rendition of an in-app notification.
type NotificationCreated struct {
	NotificationID string    `json:"notification_id"`
	RecipientEmail string    `json:"recipient_email"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	ActionURL      string    `json:"action_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
