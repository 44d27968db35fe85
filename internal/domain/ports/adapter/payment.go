package adapter

import (
	"context"
	"time"
)

// InvoiceRequest describes a checkout invoice to create on the gateway.
type InvoiceRequest struct {
	ExternalOrderID string // our order reference, echoed back in callbacks
	Amount          int64
	Currency        string
	Description     string
	PayerEmail      string
}

// Invoice is the gateway's view of a payment attempt.
type Invoice struct {
	ID            string // gateway transaction id
	Status        string // PAID | SETTLED | EXPIRED | PENDING | ...
	PayURL        string
	PaymentMethod string
	PaidAt        *time.Time
}

type PaymentGateway interface {
	Name() string
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
	// FindInvoice queries the gateway by our order reference. Used by the
	// reconciler sweep for payments whose callback never arrived.
	FindInvoice(ctx context.Context, externalOrderID string) (*Invoice, error)
}
