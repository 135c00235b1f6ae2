package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	qNotifInsert = `
INSERT INTO notifications (recipient_id, request_id, message)
VALUES ($1, $2, $3)
RETURNING id, read, sent, created_at;`

	qNotifByID = `
SELECT id, recipient_id, request_id, message, read, sent, created_at
FROM notifications
WHERE id = $1;`

	qNotifByRecipient = `
SELECT id, recipient_id, request_id, message, read, sent, created_at
FROM notifications
WHERE recipient_id = $1
ORDER BY created_at DESC, id DESC;`

	qNotifMarkRead = `
UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2;`

	qNotifMarkAllRead = `
UPDATE notifications SET read = TRUE WHERE recipient_id = $1;`

	qNotifClear = `
DELETE FROM notifications WHERE recipient_id = $1;`

	qNotifMarkSent = `
UPDATE notifications SET sent = TRUE WHERE id = $1;`
)

// Create is transaction-aware: under a Transactor it joins the
// caller's transaction so the row commits with the request write.
func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qNotifInsert, n.RecipientID, n.RequestID, n.Message).
		Scan(&n.ID, &n.Read, &n.Sent, &n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) GetByID(ctx context.Context, id int64) (*notification.Notification, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var n notification.Notification
	if err := r.db.Pool.QueryRow(ctx, qNotifByID, id).Scan(
		&n.ID, &n.RecipientID, &n.RequestID, &n.Message, &n.Read, &n.Sent, &n.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID int64) ([]*notification.Notification, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qNotifByRecipient, recipientID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.RequestID, &n.Message, &n.Read, &n.Sent, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		nc := n
		out = append(out, &nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qNotifMarkRead, id, recipientID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qNotifMarkAllRead, recipientID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

func (r *NotificationRepo) DeleteByRecipient(ctx context.Context, recipientID int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qNotifClear, recipientID); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepo) MarkSent(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qNotifMarkSent, id); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}
