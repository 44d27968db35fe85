package repository

import (
	"context"

	"property-marketplace/internal/domain/model"
)

// -----------------------------
// Premium plans
// -----------------------------

type PremiumPlanRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PremiumPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PremiumPlan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.PremiumPlan, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
