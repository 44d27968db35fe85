package repository

import (
	"context"
	"time"

	"property-marketplace/internal/domain/model"
)

// -----------------------------
// Payments
// -----------------------------

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PaymentRecord) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentRecord, error)
	// FindByTransactionID is the primary correlation lookup: the gateway's
	// own transaction id, backfilled on the first callback.
	FindByTransactionID(ctx context.Context, tx Tx, transactionID string) (*model.PaymentRecord, error)
	// FindByOrderRef is the fallback correlation lookup: the order reference
	// we assigned at checkout (unique column, no substring matching).
	FindByOrderRef(ctx context.Context, tx Tx, externalOrderID string) (*model.PaymentRecord, error)
	// MarkPaidIfUnpaid transitions a pending payment to paid, backfilling the
	// gateway transaction id and payment method. Returns false when the row
	// was already terminal, making redelivery a no-op.
	MarkPaidIfUnpaid(ctx context.Context, tx Tx, id, transactionID string, method *string, paidAt time.Time) (bool, error)
	// MarkFailedIfUnpaid transitions a pending payment to failed. Terminal
	// statuses are never overwritten.
	MarkFailedIfUnpaid(ctx context.Context, tx Tx, id, transactionID string) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error)
	// SumPaidByPeriod sums paid amounts since the start of the given period
	// ("week" | "month" | "year").
	SumPaidByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
