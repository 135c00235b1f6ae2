package notifier

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	kafkax "github.com/fernweh-labs/tripdesk/internal/repository/kafka"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_messages_consumed_total",
		Help: "Mail-requested events consumed",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_emails_sent_total",
		Help: "Emails sent",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_errors_total",
		Help: "Errors",
	})
)

type Controller struct {
	Log *zap.Logger
	Sub *kafkax.Consumer
	UC  *Handler
}

func (c *Controller) Run(ctx context.Context) error {
	handler := kafkax.JSONHandler(
		func(ctx context.Context, _ []byte, ev notification.MailRequested) error {
			mConsumed.Inc()
			if ev.NotificationID <= 0 {
				c.Log.Warn("mail-requested: invalid notification_id",
					zap.Int64("notification_id", ev.NotificationID))
				return nil
			}
			if err := c.UC.HandleMailRequested(ctx, ev); err != nil {
				mErrors.Inc()
				return err
			}
			mSent.Inc()
			return nil
		},
	)

	if err := c.Sub.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}
