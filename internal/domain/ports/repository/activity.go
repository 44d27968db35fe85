package repository

import (
	"context"

	"property-marketplace/internal/domain/model"
)

// -----------------------------
// Activity log (append-only)
// -----------------------------

type ActivityLogRepository interface {
	Append(ctx context.Context, tx Tx, e *model.ActivityLogEntry) error
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.ActivityLogEntry, error)
	ListByResource(ctx context.Context, tx Tx, resource, resourceID string) ([]*model.ActivityLogEntry, error)
}
