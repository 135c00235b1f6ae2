package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	"github.com/fernweh-labs/tripdesk/internal/domain/outbox"
	"github.com/fernweh-labs/tripdesk/internal/obs/retry"
)

var (
	outboxHandlerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_handler_latency_seconds",
		Help:    "Latency of outbox handlers (publish, http, etc.)",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	outboxHandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_handler_errors_total",
		Help: "Errors in outbox handlers (after retries).",
	}, []string{"kind"})
)

func instrument(kind string, h outbox.KindHandler, pol retry.Policy) outbox.KindHandler {
	tr := otel.Tracer("outbox.handler")
	if pol.Name == "" {
		pol.Name = "outbox_" + kind
	}
	return func(ctx context.Context, data []byte) error {
		ctx, span := tr.Start(ctx, "outbox.handle")
		defer span.End()

		start := time.Now()
		err := retry.Do(ctx, func() error { return h(ctx, data) }, pol)
		outboxHandlerLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			outboxHandlerErrors.WithLabelValues(kind).Inc()
		}
		return err
	}
}

func MakeGlobalOutboxHandler(pub notification.MailEvents, pol retry.Policy) outbox.GlobalHandler {
	return func(kind outbox.Kind) (outbox.KindHandler, error) {
		switch kind {
		case outbox.KindMailRequested:
			base := func(ctx context.Context, data []byte) error {
				var ev notification.MailRequested
				if err := json.Unmarshal(data, &ev); err != nil {
					return fmt.Errorf("unmarshal mail-requested payload: %w", err)
				}
				return pub.PublishMailRequested(ctx, ev)
			}
			return instrument("mail_requested", base, pol), nil
		default:
			return nil, fmt.Errorf("unsupported outbox kind: %d", kind)
		}
	}
}
