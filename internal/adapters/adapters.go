package adapters

import (
	"context"
	"time"

	"ecbrates/internal/domain"

	"github.com/shopspring/decimal"
)

type RateSource interface {
	FetchDay(ctx context.Context, day string) ([]byte, error)
}

type CurrencyRepository interface {
	FindOrCreate(ctx context.Context, code string) (int64, error)
	ListCodes(ctx context.Context) ([]string, error)
}

type RateRepository interface {
	Exists(ctx context.Context, date time.Time, currencyID int64) (bool, error)
	Insert(ctx context.Context, date time.Time, currencyID int64, rate decimal.Decimal) error
	List(ctx context.Context, filter domain.RateFilter) ([]domain.StoredRate, error)
}

type Notifier interface {
	Notify(subject, body string) error
}

type CurrencyIDCache interface {
	Get(code string) (int64, bool)
	Set(code string, id int64)
	Close()
}
