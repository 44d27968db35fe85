package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // checkout initiated; awaiting gateway callback
	PaymentStatusPaid     PaymentStatus = "paid"     // confirmed by gateway callback or reconciler
	PaymentStatusFailed   PaymentStatus = "failed"   // gateway reported EXPIRED/FAILED
	PaymentStatusRefunded PaymentStatus = "refunded" // manual refund flow
)

// PaymentRecord tracks a single payment attempt against the gateway.
//
// Correlation is two-phase: ExternalOrderID is assigned by us at checkout and
// embedded in the gateway invoice, while TransactionID is the gateway's own
// identifier and is only known (and backfilled) once the first callback for
// the invoice arrives.
type PaymentRecord struct {
	ID              string // UUID
	UserID          string // UUID
	PropertyID      string // UUID of the property being promoted ("" for non-premium payments)
	PlanID          string // UUID of the premium plan
	Provider        string // e.g. "xendit"
	Amount          int64  // minor currency units
	Currency        string
	ExternalOrderID string        // unique order reference we assigned at checkout
	TransactionID   *string       // gateway transaction id; nil until first callback
	PaymentMethod   *string       // nil until the gateway reports it
	Status          PaymentStatus
	PaymentDate     *time.Time // set when paid
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Terminal reports whether the payment reached a final status. Terminal
// statuses are monotonic: a later callback must never overwrite them.
func (p *PaymentRecord) Terminal() bool {
	switch p.Status {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
