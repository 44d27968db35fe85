package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	Create(ctx context.Context, name string, durationDays int, price int64, currency string) (*model.PremiumPlan, error)
	Update(ctx context.Context, id, name string, durationDays int, price int64, currency string) (*model.PremiumPlan, error)
	FindByID(ctx context.Context, id string) (*model.PremiumPlan, error)
	List(ctx context.Context) ([]*model.PremiumPlan, error)
	Delete(ctx context.Context, id string) error
}

type planUC struct {
	plans repository.PremiumPlanRepository
}

func NewPlanUseCase(plans repository.PremiumPlanRepository) *planUC {
	return &planUC{plans: plans}
}

func validatePlan(name string, durationDays int, price int64, currency string) error {
	if strings.TrimSpace(name) == "" || durationDays <= 0 || price <= 0 || strings.TrimSpace(currency) == "" {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (u *planUC) Create(ctx context.Context, name string, durationDays int, price int64, currency string) (*model.PremiumPlan, error) {
	if err := validatePlan(name, durationDays, price, currency); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &model.PremiumPlan{
		ID:           uuid.NewString(),
		Name:         name,
		DurationDays: durationDays,
		Price:        price,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.plans.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *planUC) Update(ctx context.Context, id, name string, durationDays int, price int64, currency string) (*model.PremiumPlan, error) {
	if err := validatePlan(name, durationDays, price, currency); err != nil {
		return nil, err
	}
	p, err := u.plans.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	p.Name = name
	p.DurationDays = durationDays
	p.Price = price
	p.Currency = currency
	p.UpdatedAt = time.Now()
	if err := u.plans.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *planUC) FindByID(ctx context.Context, id string) (*model.PremiumPlan, error) {
	p, err := u.plans.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

func (u *planUC) List(ctx context.Context) ([]*model.PremiumPlan, error) {
	return u.plans.ListAll(ctx, nil)
}

func (u *planUC) Delete(ctx context.Context, id string) error {
	if err := u.plans.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPlanNotFound
		}
		return err
	}
	return nil
}
