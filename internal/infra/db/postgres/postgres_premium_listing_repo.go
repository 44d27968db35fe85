package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/repository"
)

var _ repository.PremiumListingRepository = (*premiumListingRepo)(nil)

type premiumListingRepo struct{ pool *pgxpool.Pool }

func NewPremiumListingRepo(pool *pgxpool.Pool) *premiumListingRepo {
	return &premiumListingRepo{pool: pool}
}

const premiumColumns = `id, property_id, user_id, plan_id, payment_id, status, start_date, end_date, views, inquiries, favorites, created_at, updated_at`

func scanPremium(row pgx.Row) (*model.PremiumListing, error) {
	pl := &model.PremiumListing{}
	if err := row.Scan(&pl.ID, &pl.PropertyID, &pl.UserID, &pl.PlanID, &pl.PaymentID, &pl.Status, &pl.StartDate, &pl.EndDate, &pl.Views, &pl.Inquiries, &pl.Favorites, &pl.CreatedAt, &pl.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return pl, nil
}

func (r *premiumListingRepo) Save(ctx context.Context, tx repository.Tx, pl *model.PremiumListing) error {
	const q = `
INSERT INTO premium_listings (
  id, property_id, user_id, plan_id, payment_id, status, start_date, end_date, views, inquiries, favorites, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  property_id=$2, user_id=$3, plan_id=$4, payment_id=$5, status=$6, start_date=$7, end_date=$8, views=$9, inquiries=$10, favorites=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, pl.ID, pl.PropertyID, pl.UserID, pl.PlanID, pl.PaymentID, pl.Status, pl.StartDate, pl.EndDate, pl.Views, pl.Inquiries, pl.Favorites, pl.CreatedAt, pl.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *premiumListingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PremiumListing, error) {
	q := `SELECT ` + premiumColumns + ` FROM premium_listings WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPremium(row)
}

func (r *premiumListingRepo) FindByPropertyAndPayment(ctx context.Context, tx repository.Tx, propertyID, paymentID string) (*model.PremiumListing, error) {
	q := `SELECT ` + premiumColumns + ` FROM premium_listings WHERE property_id=$1 AND payment_id=$2`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += " LIMIT 1;"
	row, err := pickRow(ctx, r.pool, tx, q, propertyID, paymentID)
	if err != nil {
		return nil, err
	}
	return scanPremium(row)
}

// ActivateIfPending flips pending -> active atomically; a listing that
// already left pending is untouched so activation happens exactly once.
func (r *premiumListingRepo) ActivateIfPending(ctx context.Context, tx repository.Tx, id string, start, end time.Time) (bool, error) {
	const q = `
UPDATE premium_listings
   SET status='active',
       start_date=$2,
       end_date=$3,
       updated_at=NOW()
 WHERE id=$1
   AND status='pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, start, end)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *premiumListingRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.PremiumListing, error) {
	const q = `
UPDATE premium_listings
   SET status='expired', updated_at=NOW()
 WHERE status='active' AND end_date < $1
RETURNING ` + premiumColumns + `;`

	rows, err := queryRows(ctx, r.pool, tx, q, now)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.PremiumListing
	for rows.Next() {
		pl, err := scanPremium(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, nil
}

func (r *premiumListingRepo) HasActiveForProperty(ctx context.Context, tx repository.Tx, propertyID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM premium_listings WHERE property_id=$1 AND status='active');`
	row, err := pickRow(ctx, r.pool, tx, q, propertyID)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *premiumListingRepo) IncrementCounter(ctx context.Context, tx repository.Tx, id string, counter repository.PremiumCounter, delta int64) error {
	var col string
	switch counter {
	case repository.CounterViews:
		col = "views"
	case repository.CounterInquiries:
		col = "inquiries"
	case repository.CounterFavorites:
		col = "favorites"
	default:
		return domain.ErrInvalidArgument
	}
	// col comes from the switch above, never from input.
	q := fmt.Sprintf(`UPDATE premium_listings SET %s = %s + $2, updated_at=NOW() WHERE id=$1;`, col, col)
	cmd, err := execSQL(ctx, r.pool, tx, q, id, delta)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *premiumListingRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PremiumListing, error) {
	q := `SELECT ` + premiumColumns + ` FROM premium_listings WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.PremiumListing
	for rows.Next() {
		pl, err := scanPremium(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, nil
}

func (r *premiumListingRepo) CountActive(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `SELECT COUNT(*) FROM premium_listings WHERE status='active';`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
