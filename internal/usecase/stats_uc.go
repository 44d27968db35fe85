package usecase

import (
	"context"

	"property-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase aggregates figures for the admin console.
type StatsUseCase interface {
	// Totals returns property count and active premium listing count.
	Totals(ctx context.Context) (properties int, activePremium int, err error)
	// Revenue returns paid amounts since the start of the week, month, year.
	Revenue(ctx context.Context) (week, month, year int64, err error)
}

type statsUC struct {
	properties repository.PropertyRepository
	premiums   repository.PremiumListingRepository
	payments   repository.PaymentRepository
}

func NewStatsUseCase(properties repository.PropertyRepository, premiums repository.PremiumListingRepository, payments repository.PaymentRepository) *statsUC {
	return &statsUC{properties: properties, premiums: premiums, payments: payments}
}

func (u *statsUC) Totals(ctx context.Context) (int, int, error) {
	props, err := u.properties.Count(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	active, err := u.premiums.CountActive(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	return props, active, nil
}

func (u *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	week, err := u.payments.SumPaidByPeriod(ctx, nil, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	month, err := u.payments.SumPaidByPeriod(ctx, nil, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	year, err := u.payments.SumPaidByPeriod(ctx, nil, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return week, month, year, nil
}
