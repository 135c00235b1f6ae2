package kafka

import (
	"context"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
)

// MailEventsKafka publishes mail-requested events for the
// email-notifier, keyed by notification id.
type MailEventsKafka struct {
	p *Producer
}

func NewMailEventsKafka(p *Producer) *MailEventsKafka { return &MailEventsKafka{p: p} }

var _ notification.MailEvents = (*MailEventsKafka)(nil)

func (e *MailEventsKafka) PublishMailRequested(ctx context.Context, ev notification.MailRequested) error {
	return e.p.PublishJSON(ctx, KeyFromInt64(ev.NotificationID), ev)
}
