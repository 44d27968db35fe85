package model

import "time"

type PremiumStatus string

const (
	PremiumStatusPending   PremiumStatus = "pending"   // created at checkout; payment not yet confirmed
	PremiumStatusActive    PremiumStatus = "active"    // payment confirmed; within the active window
	PremiumStatusExpired   PremiumStatus = "expired"   // past EndDate
	PremiumStatusCancelled PremiumStatus = "cancelled" // admin/user cancel
)

// PremiumListing links a property to a premium plan and the payment that
// (eventually) funds it. Created pending at checkout and flipped to active
// exclusively by payment reconciliation.
type PremiumListing struct {
	ID         string // UUID
	PropertyID string // UUID
	UserID     string // UUID
	PlanID     string // UUID
	PaymentID  string // UUID -> PaymentRecord
	Status     PremiumStatus
	StartDate  *time.Time // set on activation
	EndDate    *time.Time // StartDate + plan duration
	Views      int64
	Inquiries  int64
	Favorites  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConversionRate derives inquiries per view. Stored counters are the source
// of truth; the rate is never persisted.
func (p *PremiumListing) ConversionRate() float64 {
	if p.Views == 0 {
		return 0
	}
	return float64(p.Inquiries) / float64(p.Views)
}

// Overdue reports whether the active window has passed. An active row past
// its EndDate is logically expired even before the sweep worker flips it.
func (p *PremiumListing) Overdue(now time.Time) bool {
	return p.Status == PremiumStatusActive && p.EndDate != nil && now.After(*p.EndDate)
}

// PremiumPlan is a purchasable promotion tier.
type PremiumPlan struct {
	ID           string // UUID
	Name         string
	DurationDays int
	Price        int64 // minor currency units
	Currency     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
