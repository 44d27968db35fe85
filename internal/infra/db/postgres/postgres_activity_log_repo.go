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

var _ repository.ActivityLogRepository = (*activityLogRepo)(nil)

type activityLogRepo struct{ pool *pgxpool.Pool }

func NewActivityLogRepo(pool *pgxpool.Pool) *activityLogRepo {
	return &activityLogRepo{pool: pool}
}

const activityColumns = `id, action, resource, resource_id, details, created_at`

func scanActivity(row pgx.Row) (*model.ActivityLogEntry, error) {
	e := &model.ActivityLogEntry{}
	if err := row.Scan(&e.ID, &e.Action, &e.Resource, &e.ResourceID, &e.Details, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return e, nil
}

// Append is insert-only: the table has no update path anywhere in the code.
func (r *activityLogRepo) Append(ctx context.Context, tx repository.Tx, e *model.ActivityLogEntry) error {
	const q = `
INSERT INTO activity_log (id, action, resource, resource_id, details, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`

	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.Action, e.Resource, e.ResourceID, e.Details, e.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *activityLogRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + activityColumns + ` FROM activity_log ORDER BY id DESC LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.ActivityLogEntry
	for rows.Next() {
		e, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *activityLogRepo) ListByResource(ctx context.Context, tx repository.Tx, resource, resourceID string) ([]*model.ActivityLogEntry, error) {
	const q = `SELECT ` + activityColumns + ` FROM activity_log WHERE resource=$1 AND resource_id=$2 ORDER BY id ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, resource, resourceID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.ActivityLogEntry
	for rows.Next() {
		e, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
