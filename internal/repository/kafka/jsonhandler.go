package kafka

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONHandler adapts a typed event callback to the raw consumer
// Handler. Undecodable payloads are reported, not retried.
func JSONHandler[T any](handle func(ctx context.Context, key []byte, ev T) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var ev T
		if err := json.Unmarshal(value, &ev); err != nil {
			return fmt.Errorf("unmarshal event: %w", err)
		}
		return handle(ctx, key, ev)
	}
}
