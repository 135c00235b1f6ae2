package notifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	"github.com/fernweh-labs/tripdesk/internal/domain/user"
)

// Handler turns a mail-requested event into an email. The event only
// carries the notification id; everything else is re-read, so that
// opt-out or deletion between enqueue and delivery wins.
type Handler struct {
	Users user.Repo
	Store notification.Repo
	Out   notification.EmailSender
	Clock notification.Clock
	Log   *zap.Logger
}

func (h *Handler) HandleMailRequested(ctx context.Context, ev notification.MailRequested) error {
	n, err := h.Store.GetByID(ctx, ev.NotificationID)
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if n.Sent {
		h.Log.Info("notification already sent, skipping", zap.Int64("notification_id", n.ID))
		return nil
	}

	u, err := h.Users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if u.EmailOptOut {
		h.Log.Info("recipient opted out since enqueue, skipping",
			zap.Int64("notification_id", n.ID), zap.Int64("recipient_id", u.ID))
		return nil
	}

	subject := "You have a new travel notification"
	body := fmt.Sprintf(
		"Hello %s!\n\n%s\n\nSent at %s.\n\n— TripDesk",
		u.FirstName, n.Message, h.Clock.Now().UTC().Format(time.RFC3339),
	)

	if err := h.Out.Send(ctx, u.Email, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if err := h.Store.MarkSent(ctx, n.ID); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}
