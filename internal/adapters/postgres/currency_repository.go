package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CurrencyRepository struct {
	pool *pgxpool.Pool
}

// FindOrCreate returns the id of the currency with the given code,
// creating the row on first sighting. Safe to call repeatedly with the
// same code.
func (r *CurrencyRepository) FindOrCreate(ctx context.Context, code string) (int64, error) {
	const findQ = `select id from currencies where code = $1;`

	var id int64
	err := r.pool.QueryRow(ctx, findQ, code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up currency %q: %w", code, err)
	}

	// A concurrent run can create the row between the lookup and this
	// insert, so resolve the conflict by re-reading the id.
	const insertQ = `
		insert into currencies (code) values ($1)
		on conflict (code) do update
		  set code = excluded.code  -- no-op, just to return id
		returning id;
	`
	if err = r.pool.QueryRow(ctx, insertQ, code).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create currency %q: %w", code, err)
	}
	return id, nil
}

// ListCodes returns every known currency code, ascending.
func (r *CurrencyRepository) ListCodes(ctx context.Context) ([]string, error) {
	const q = `select code from currencies order by code;`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency codes: %w", err)
	}
	defer rows.Close()

	codes := make([]string, 0, 64)
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency code: %w", err)
		}
		codes = append(codes, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency codes: %w", err)
	}
	return codes, nil
}

func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}
