package rate

import (
	"context"

	"ecbrates/internal/adapters"
	"ecbrates/internal/domain"
)

type Service struct {
	rates      adapters.RateRepository
	currencies adapters.CurrencyRepository
}

func (s *Service) ListRates(ctx context.Context, filter domain.RateFilter) ([]View, error) {
	stored, err := s.rates.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(stored))
	for _, sr := range stored {
		views = append(views, toView(sr))
	}
	return views, nil
}

func (s *Service) ListCurrencies(ctx context.Context) ([]string, error) {
	return s.currencies.ListCodes(ctx)
}

func NewService(rates adapters.RateRepository, currencies adapters.CurrencyRepository) *Service {
	return &Service{rates: rates, currencies: currencies}
}
