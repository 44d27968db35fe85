package repository

import (
	"context"

	"property-marketplace/internal/domain/model"
)

// -----------------------------
// Properties (narrow slice)
// -----------------------------

type PropertyRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Property) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Property, error)
	// SetPromoted flips the promotion flag. Writing the value it already
	// holds is a no-op.
	SetPromoted(ctx context.Context, tx Tx, id string, promoted bool) error
	// List returns properties, promoted rows first, newest within each group.
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Property, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
