package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that were already processed
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes a key so a failed request can be retried with it
	Forget(ctx context.Context, key string) error

	Close() error
}
