package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/observability"
	"github.com/rakshithjm97/ivms3/internal/query"
)

// ActivityRepo reads and edits activity rows through logical-field queries. Callers are
// expected to pass criteria that already carry the caller's access scope.
type ActivityRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewActivityRepo(pool *pgxpool.Pool, prom *observability.Prom) *ActivityRepo {
	return &ActivityRepo{pool: pool, prom: prom}
}

// List returns up to limit records across sources, newest submission first.
func (r *ActivityRepo) List(ctx context.Context, sources []query.Table, where query.Criteria, limit int) ([]activity.Record, error) {
	sql, args, err := query.Select{
		Tables:  sources,
		Fields:  activity.RecordFields,
		Where:   where,
		OrderBy: activity.FieldSubmittedAt,
		Limit:   limit,
	}.SQL()
	if err != nil {
		return nil, err
	}

	out := make([]activity.Record, 0)

	err = r.prom.ObserveDB("activity.list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec activity.Record
			if err := rows.Scan(rec.ScanTargets()...); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return out, nil
}

// Distinct returns the distinct non-empty values of field across sources.
func (r *ActivityRepo) Distinct(ctx context.Context, sources []query.Table, field query.Field, where query.Criteria) ([]string, error) {
	sql, args, err := query.Distinct{Tables: sources, Field: field, Where: where}.SQL()
	if err != nil {
		return nil, err
	}

	out := make([]string, 0)

	err = r.prom.ObserveDB("activity.distinct."+field.Name, func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field.Name, err)
	}

	return out, nil
}

// Update applies a validated edit and returns the number of rows changed.
func (r *ActivityRepo) Update(ctx context.Context, e activity.Edit) (int64, error) {
	sql, args, err := query.Update{Table: e.Table, Set: e.Set, Where: e.Criteria()}.SQL()
	if err != nil {
		return 0, err
	}

	var n int64
	err = r.prom.ObserveDB("activity.update", func() error {
		tag, err := r.pool.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("update activity: %w", err)
	}

	return n, nil
}
