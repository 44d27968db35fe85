package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, property_id, plan_id, provider, amount, currency, external_order_id, transaction_id, payment_method, status, payment_date, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.PaymentRecord, error) {
	p := &model.PaymentRecord{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PropertyID, &p.PlanID, &p.Provider, &p.Amount, &p.Currency, &p.ExternalOrderID, &p.TransactionID, &p.PaymentMethod, &p.Status, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	const q = `
INSERT INTO payments (
  id, user_id, property_id, plan_id, provider, amount, currency, external_order_id, transaction_id, payment_method, status, payment_date, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  user_id=$2, property_id=$3, plan_id=$4, provider=$5, amount=$6, currency=$7, external_order_id=$8, transaction_id=$9, payment_method=$10, status=$11, payment_date=$12, updated_at=$14;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.PropertyID, p.PlanID, p.Provider, p.Amount, p.Currency, p.ExternalOrderID, p.TransactionID, p.PaymentMethod, p.Status, p.PaymentDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += " LIMIT 1;"
	row, err := pickRow(ctx, r.pool, tx, q, transactionID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindByOrderRef(ctx context.Context, tx repository.Tx, externalOrderID string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE external_order_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += " LIMIT 1;"
	row, err := pickRow(ctx, r.pool, tx, q, externalOrderID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// MarkPaidIfUnpaid transitions only rows still pending, so a redelivered
// callback is a no-op. The gateway transaction id is backfilled and the
// payment method kept when the event did not report one.
func (r *paymentRepo) MarkPaidIfUnpaid(ctx context.Context, tx repository.Tx, id, transactionID string, method *string, paidAt time.Time) (bool, error) {
	const q = `
UPDATE payments
   SET status='paid',
       transaction_id=$2,
       payment_method=COALESCE($3, payment_method),
       payment_date=$4,
       updated_at=NOW()
 WHERE id=$1
   AND status='pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, transactionID, method, paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) MarkFailedIfUnpaid(ctx context.Context, tx repository.Tx, id, transactionID string) (bool, error) {
	const q = `
UPDATE payments
   SET status='failed',
       transaction_id=COALESCE(NULLIF($2,''), transaction_id),
       updated_at=NOW()
 WHERE id=$1
   AND status='pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, transactionID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *paymentRepo) SumPaidByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='paid' AND payment_date >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}

	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
