package repository

import (
	"context"
	"time"

	"property-marketplace/internal/domain/model"
)

// -----------------------------
// Premium listings
// -----------------------------

// PremiumCounter names an analytics counter column on a premium listing.
type PremiumCounter string

const (
	CounterViews     PremiumCounter = "views"
	CounterInquiries PremiumCounter = "inquiries"
	CounterFavorites PremiumCounter = "favorites"
)

type PremiumListingRepository interface {
	Save(ctx context.Context, tx Tx, pl *model.PremiumListing) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PremiumListing, error)
	// FindByPropertyAndPayment locates the premium listing a payment cascade
	// targets. Absence is not an error condition for the caller.
	FindByPropertyAndPayment(ctx context.Context, tx Tx, propertyID, paymentID string) (*model.PremiumListing, error)
	// ActivateIfPending flips a pending listing to active with the given
	// window. Returns false when the listing already left pending, so a
	// redelivered callback cannot re-activate or shift the window.
	ActivateIfPending(ctx context.Context, tx Tx, id string, start, end time.Time) (bool, error)
	// ExpireOverdue flips active listings past their end date to expired and
	// returns the affected rows so the caller can cascade.
	ExpireOverdue(ctx context.Context, tx Tx, now time.Time) ([]*model.PremiumListing, error)
	// HasActiveForProperty reports whether the property still has an active
	// listing, so expiring one listing does not demote a renewed property.
	HasActiveForProperty(ctx context.Context, tx Tx, propertyID string) (bool, error)
	IncrementCounter(ctx context.Context, tx Tx, id string, counter PremiumCounter, delta int64) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.PremiumListing, error)
	CountActive(ctx context.Context, tx Tx) (int, error)
}
