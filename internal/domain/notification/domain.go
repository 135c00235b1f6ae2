package notification

import (
	"context"
	"time"
)

type Notification struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	RequestID   *int64    `json:"request_id"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	Sent        bool      `json:"sent"`
	CreatedAt   time.Time `json:"created_at"`
}

// MailRequested is the event relayed through the outbox to the
// email-notifier once the notification row is committed.
type MailRequested struct {
	NotificationID int64     `json:"notification_id"`
	At             time.Time `json:"at"`
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Clock interface {
	Now() time.Time
}
