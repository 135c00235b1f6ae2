package outbox

import (
	"context"

	"github.com/fernweh-labs/tripdesk/internal/domain/outbox"
	"github.com/fernweh-labs/tripdesk/internal/obs/retry"
)

func WrapKindHandler(h outbox.KindHandler, p retry.Policy) outbox.KindHandler {
	return func(ctx context.Context, data []byte) error {
		return retry.Do(ctx, func() error { return h(ctx, data) }, p)
	}
}
