package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecbrates/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type RateRepository struct {
	pool *pgxpool.Pool
}

func (r *RateRepository) Exists(ctx context.Context, date time.Time, currencyID int64) (bool, error) {
	const q = `select exists (select 1 from currency_rates where date = $1 and currency_id = $2);`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, date, currencyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rate for %s: %w", date.Format("2006-01-02"), err)
	}
	return exists, nil
}

func (r *RateRepository) Insert(ctx context.Context, date time.Time, currencyID int64, rate decimal.Decimal) error {
	const q = `insert into currency_rates (date, currency_id, rate) values ($1, $2, $3);`

	if _, err := r.pool.Exec(ctx, q, date, currencyID, rate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateRate
		}
		return fmt.Errorf("failed to insert rate for %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}

// List returns stored rates matching the filter. With a date bound the
// result is ordered by date, otherwise by currency code then date.
func (r *RateRepository) List(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error) {
	q := `
		select cr.date, c.code, cr.rate
		from currency_rates cr
		join currencies c on c.id = cr.currency_id`

	var (
		conds []string
		args  []any
	)
	if len(filter.Codes) > 0 {
		args = append(args, filter.Codes)
		conds = append(conds, fmt.Sprintf("c.code = any($%d)", len(args)))
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		conds = append(conds, fmt.Sprintf("cr.date >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		conds = append(conds, fmt.Sprintf("cr.date <= $%d", len(args)))
	}
	if len(conds) > 0 {
		q += "\n\t\twhere " + strings.Join(conds, " and ")
	}
	if filter.Start != nil || filter.End != nil {
		q += "\n\t\torder by cr.date, c.code;"
	} else {
		q += "\n\t\torder by c.code, cr.date;"
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.StoredRate, 0, 64)
	for rows.Next() {
		var sr domain.StoredRate
		if err = rows.Scan(&sr.Date, &sr.Currency, &sr.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, sr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rates: %w", err)
	}
	return rates, nil
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
