package redis

import (
	"context"
	"time"

	"property-marketplace/internal/domain/ports/repository"
)

// Ensure compile-time conformance
var _ repository.EventGuard = (*EventGuard)(nil)

// EventGuard deduplicates webhook deliveries with a short-lived SETNX
// claim. It is best-effort: the database's conditional updates remain the
// authoritative idempotency mechanism when Redis is down or the TTL lapsed.
type EventGuard struct {
	cli RedisClient
}

func NewEventGuard(cli RedisClient) *EventGuard {
	return &EventGuard{cli: cli}
}

func (g *EventGuard) FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return g.cli.SetNX(ctx, key, 1, ttl)
}

func (g *EventGuard) Release(ctx context.Context, key string) error {
	return g.cli.Del(ctx, key)
}
