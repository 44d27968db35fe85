package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/repository"
)

var _ repository.PropertyRepository = (*propertyRepo)(nil)

type propertyRepo struct{ pool *pgxpool.Pool }

func NewPropertyRepo(pool *pgxpool.Pool) *propertyRepo {
	return &propertyRepo{pool: pool}
}

const propertyColumns = `id, owner_id, title, city, price, is_promoted, created_at, updated_at`

func scanProperty(row pgx.Row) (*model.Property, error) {
	p := &model.Property{}
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.City, &p.Price, &p.IsPromoted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *propertyRepo) Save(ctx context.Context, tx repository.Tx, p *model.Property) error {
	const q = `
INSERT INTO properties (
  id, owner_id, title, city, price, is_promoted, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
) ON CONFLICT (id) DO UPDATE SET
  owner_id=$2, title=$3, city=$4, price=$5, is_promoted=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.OwnerID, p.Title, p.City, p.Price, p.IsPromoted, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *propertyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProperty(row)
}

func (r *propertyRepo) SetPromoted(ctx context.Context, tx repository.Tx, id string, promoted bool) error {
	const q = `UPDATE properties SET is_promoted=$2, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, promoted)
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

func (r *propertyRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties ORDER BY is_promoted DESC, created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *propertyRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `SELECT COUNT(*) FROM properties;`
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
