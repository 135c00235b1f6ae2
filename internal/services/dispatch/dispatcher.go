package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	"github.com/fernweh-labs/tripdesk/internal/domain/outbox"
	"github.com/fernweh-labs/tripdesk/internal/domain/request"
	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	"github.com/fernweh-labs/tripdesk/internal/obs"
)

// Dispatcher writes the in-app notification and, unless the recipient
// opted out of email, enqueues a mail-requested outbox message. Callers
// run it inside the same transaction as the change being announced.
type Dispatcher struct {
	users  user.Repo
	notifs notification.Repo
	box    outbox.Repository
	now    func() time.Time
	log    *zap.Logger
}

func New(users user.Repo, notifs notification.Repo, box outbox.Repository, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		users:  users,
		notifs: notifs,
		box:    box,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// RequestCreated notifies the requester's line manager about a new
// pending request. A requester without a line manager produces no
// notification.
func (d *Dispatcher) RequestCreated(ctx context.Context, req *request.Request, requester *user.User) error {
	if requester.LineManagerID == nil {
		obs.WithTrace(ctx, d.log).Info("request without line manager, nothing to dispatch",
			zap.Int64("request_id", req.ID))
		return nil
	}
	msg := fmt.Sprintf("%s %s requested a %s trip from %s to %s",
		requester.FirstName, requester.LastName, req.TripType, req.OriginCity, req.DestinationCity)
	return d.deliver(ctx, *requester.LineManagerID, req.ID, msg)
}

// RequestDecided notifies the requester that a manager settled the
// request.
func (d *Dispatcher) RequestDecided(ctx context.Context, req *request.Request) error {
	msg := fmt.Sprintf("Your trip request to %s was %s", req.DestinationCity, req.Status)
	return d.deliver(ctx, req.RequesterID, req.ID, msg)
}

func (d *Dispatcher) deliver(ctx context.Context, recipientID, requestID int64, msg string) error {
	recipient, err := d.users.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("load recipient %d: %w", recipientID, err)
	}

	n := &notification.Notification{
		RecipientID: recipientID,
		RequestID:   &requestID,
		Message:     msg,
		CreatedAt:   d.now(),
	}
	if err := d.notifs.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if recipient.EmailOptOut {
		obs.WithTrace(ctx, d.log).Info("recipient opted out of email",
			zap.Int64("recipient_id", recipientID), zap.Int64("notification_id", n.ID))
		return nil
	}

	payload, err := json.Marshal(notification.MailRequested{NotificationID: n.ID, At: d.now()})
	if err != nil {
		return fmt.Errorf("marshal mail event: %w", err)
	}
	key := fmt.Sprintf("mail-%d", n.ID)
	if err := d.box.Enqueue(ctx, key, outbox.KindMailRequested, payload); err != nil {
		return fmt.Errorf("enqueue mail event: %w", err)
	}
	return nil
}
