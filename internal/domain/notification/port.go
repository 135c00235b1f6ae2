package notification

import "context"

type Repo interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)

	// ListByRecipient returns the recipient's notifications, most
	// recent first.
	ListByRecipient(ctx context.Context, recipientID int64) ([]*Notification, error)

	// MarkRead flips the read flag on a single notification. The
	// update is scoped to the recipient; a foreign or unknown id is a
	// no-op, not an error.
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) error

	DeleteByRecipient(ctx context.Context, recipientID int64) error

	MarkSent(ctx context.Context, id int64) error
}

// MailEvents is the outbound port the outbox relay publishes through.
type MailEvents interface {
	PublishMailRequested(ctx context.Context, ev MailRequested) error
}
