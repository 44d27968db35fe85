package repository

import (
	"context"
	"time"
)

// EventGuard is a best-effort short-term deduplication check for webhook
// deliveries. The conditional database updates remain the authoritative
// idempotency mechanism; the guard only short-circuits rapid duplicates.
type EventGuard interface {
	// FirstDelivery reports whether this event key has not been seen within
	// the TTL window, claiming it if so.
	FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets a claimed key so a failed processing attempt can be
	// retried immediately.
	Release(ctx context.Context, key string) error
}
