package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/adapter"
	"property-marketplace/internal/domain/ports/repository"
	"property-marketplace/internal/infra/metrics"
)

// Compile-time check
var _ PremiumUseCase = (*premiumUC)(nil)

// PremiumUseCase owns the premium upgrade lifecycle on the application
// side: checkout initiation, analytics counters, and the expiry sweep.
// Activation itself belongs to ReconcileUseCase.
type PremiumUseCase interface {
	// InitiateUpgrade creates a pending payment and a pending premium
	// listing, requests a gateway invoice, and returns the redirect URL.
	InitiateUpgrade(ctx context.Context, userID, propertyID, planID string) (*model.PaymentRecord, string, error)
	ListByUser(ctx context.Context, userID string) ([]*model.PremiumListing, error)
	RecordView(ctx context.Context, premiumID string) error
	RecordInquiry(ctx context.Context, premiumID string) error
	RecordFavorite(ctx context.Context, premiumID string) error
	// ExpireOverdue flips active listings past their end date to expired,
	// demotes the properties, and logs the transitions. Returns the count.
	ExpireOverdue(ctx context.Context) (int, error)
}

type premiumUC struct {
	payments   repository.PaymentRepository
	premiums   repository.PremiumListingRepository
	properties repository.PropertyRepository
	plans      repository.PremiumPlanRepository
	activity   repository.ActivityLogRepository
	gateway    adapter.PaymentGateway
	tm         repository.TransactionManager
	log        *zerolog.Logger
}

func NewPremiumUseCase(
	payments repository.PaymentRepository,
	premiums repository.PremiumListingRepository,
	properties repository.PropertyRepository,
	plans repository.PremiumPlanRepository,
	activity repository.ActivityLogRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *premiumUC {
	l := logger.With().Str("component", "PremiumUC").Logger()
	return &premiumUC{
		payments:   payments,
		premiums:   premiums,
		properties: properties,
		plans:      plans,
		activity:   activity,
		gateway:    gateway,
		tm:         tm,
		log:        &l,
	}
}

func (u *premiumUC) InitiateUpgrade(ctx context.Context, userID, propertyID, planID string) (*model.PaymentRecord, string, error) {
	prop, err := u.properties.FindByID(ctx, nil, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrPropertyNotFound
		}
		return nil, "", err
	}
	if prop.OwnerID != userID {
		return nil, "", domain.ErrNotPropertyOwner
	}

	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrPlanNotFound
		}
		return nil, "", err
	}

	now := time.Now()
	orderRef := model.NewPremiumOrderRef(propertyID, now)
	inv, err := u.gateway.CreateInvoice(ctx, adapter.InvoiceRequest{
		ExternalOrderID: orderRef,
		Amount:          plan.Price,
		Currency:        plan.Currency,
		Description:     fmt.Sprintf("Premium upgrade (%s) for property %s", plan.Name, prop.Title),
	})
	if err != nil {
		return nil, "", err
	}

	p := &model.PaymentRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		PropertyID:      propertyID,
		PlanID:          planID,
		Provider:        u.gateway.Name(),
		Amount:          plan.Price,
		Currency:        plan.Currency,
		ExternalOrderID: orderRef,
		Status:          model.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	pl := &model.PremiumListing{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     userID,
		PlanID:     planID,
		PaymentID:  p.ID,
		Status:     model.PremiumStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.payments.Save(ctx, tx, p); err != nil {
			return err
		}
		return u.premiums.Save(ctx, tx, pl)
	})
	if err != nil {
		return nil, "", err
	}

	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().
		Str("order_ref", orderRef).
		Str("property_id", propertyID).
		Str("plan_id", planID).
		Msg("premium upgrade initiated")
	return p, inv.PayURL, nil
}

func (u *premiumUC) ListByUser(ctx context.Context, userID string) ([]*model.PremiumListing, error) {
	return u.premiums.ListByUser(ctx, nil, userID)
}

func (u *premiumUC) RecordView(ctx context.Context, premiumID string) error {
	return u.premiums.IncrementCounter(ctx, nil, premiumID, repository.CounterViews, 1)
}

func (u *premiumUC) RecordInquiry(ctx context.Context, premiumID string) error {
	return u.premiums.IncrementCounter(ctx, nil, premiumID, repository.CounterInquiries, 1)
}

func (u *premiumUC) RecordFavorite(ctx context.Context, premiumID string) error {
	return u.premiums.IncrementCounter(ctx, nil, premiumID, repository.CounterFavorites, 1)
}

func (u *premiumUC) ExpireOverdue(ctx context.Context) (int, error) {
	var count int
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		expired, err := u.premiums.ExpireOverdue(ctx, tx, now)
		if err != nil {
			return err
		}
		for _, pl := range expired {
			// A renewed property has a newer active listing; only demote
			// when this was the last one.
			stillActive, err := u.premiums.HasActiveForProperty(ctx, tx, pl.PropertyID)
			if err != nil {
				return err
			}
			if !stillActive {
				if err := u.properties.SetPromoted(ctx, tx, pl.PropertyID, false); err != nil {
					return err
				}
			}
			e := &model.ActivityLogEntry{
				ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
				Action:     model.ActivityPremiumExpired,
				Resource:   "premium_listings",
				ResourceID: pl.ID,
				Details:    fmt.Sprintf("Premium listing expired for property %s", pl.PropertyID),
				CreatedAt:  now,
			}
			if err := u.activity.Append(ctx, tx, e); err != nil {
				return err
			}
		}
		count = len(expired)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		metrics.AddPremiumExpired(count)
	}
	return count, nil
}
