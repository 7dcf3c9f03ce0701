package ingest

import (
	"context"

	"ecbrates/internal/adapters"
)

// Resolver maps a currency code to its stored id, creating the currency on
// first sighting. Resolved ids are cached so repeated codes within a run
// cost one round-trip.
type Resolver struct {
	currencies adapters.CurrencyRepository
	cache      adapters.CurrencyIDCache
}

func (r *Resolver) Resolve(ctx context.Context, code string) (int64, error) {
	if id, ok := r.cache.Get(code); ok {
		return id, nil
	}
	id, err := r.currencies.FindOrCreate(ctx, code)
	if err != nil {
		return 0, err
	}
	r.cache.Set(code, id)
	return id, nil
}

func NewResolver(currencies adapters.CurrencyRepository, cache adapters.CurrencyIDCache) *Resolver {
	return &Resolver{currencies: currencies, cache: cache}
}
