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
var _ ListingUseCase = (*listingUC)(nil)

// ListingUseCase is the narrow property CRUD slice this core needs. The
// promotion flag is read here but only ever written by reconciliation and
// the expiry sweep.
type ListingUseCase interface {
	Create(ctx context.Context, ownerID, title, city string, price int64) (*model.Property, error)
	FindByID(ctx context.Context, id string) (*model.Property, error)
	List(ctx context.Context, offset, limit int) ([]*model.Property, error)
	Count(ctx context.Context) (int, error)
}

type listingUC struct {
	properties repository.PropertyRepository
}

func NewListingUseCase(properties repository.PropertyRepository) *listingUC {
	return &listingUC{properties: properties}
}

func (u *listingUC) Create(ctx context.Context, ownerID, title, city string, price int64) (*model.Property, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(ownerID) == "" || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	p := &model.Property{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		City:      city,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.properties.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *listingUC) FindByID(ctx context.Context, id string) (*model.Property, error) {
	p, err := u.properties.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (u *listingUC) List(ctx context.Context, offset, limit int) ([]*model.Property, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.properties.List(ctx, nil, offset, limit)
}

func (u *listingUC) Count(ctx context.Context) (int, error) {
	return u.properties.Count(ctx, nil)
}
