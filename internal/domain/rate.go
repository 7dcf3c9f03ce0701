package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is one stored reference rate: how much of a currency one EUR
// bought on a given date. Rows are append-only, unique on (date, currency).
type CurrencyRate struct {
	ID         int64
	CurrencyID int64
	Date       time.Time
	Rate       decimal.Decimal
}

// StoredRate is the query-side projection of a rate joined with its
// currency code.
type StoredRate struct {
	Date     time.Time
	Currency string
	Rate     decimal.Decimal
}

// RateFilter narrows a rate listing. Nil date bounds mean unbounded,
// an empty code list means all currencies.
type RateFilter struct {
	Codes []string
	Start *time.Time
	End   *time.Time
}
