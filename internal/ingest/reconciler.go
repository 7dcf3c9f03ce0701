package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecbrates/internal/adapters"
	"ecbrates/internal/domain"

	"github.com/shopspring/decimal"
)

type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeSkipped
)

func (o Outcome) String() string {
	if o == OutcomeInserted {
		return "inserted"
	}
	return "skipped"
}

// Reconciler maps one parsed observation onto storage: parse the raw
// strings, check existence, insert when absent. Re-running over already
// ingested observations is a no-op per observation.
type Reconciler struct {
	rates adapters.RateRepository
}

func (r *Reconciler) Reconcile(ctx context.Context, currencyID int64, rawDate, rawRate string) (Outcome, error) {
	date, err := time.Parse(dayFormat, rawDate)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("%w: bad date %q", domain.ErrMalformedObservation, rawDate)
	}
	rate, err := decimal.NewFromString(rawRate)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("%w: bad rate %q", domain.ErrMalformedObservation, rawRate)
	}

	exists, err := r.rates.Exists(ctx, date, currencyID)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("failed to check rate existence: %w", err)
	}
	if exists {
		return OutcomeSkipped, nil
	}

	if err := r.rates.Insert(ctx, date, currencyID, rate); err != nil {
		// A concurrent run can win the insert between the check and here.
		// The unique constraint is the last line of defense, losing the
		// race means the rate is already there.
		if errors.Is(err, domain.ErrDuplicateRate) {
			return OutcomeSkipped, nil
		}
		return OutcomeSkipped, fmt.Errorf("failed to insert rate: %w", err)
	}
	return OutcomeInserted, nil
}

func NewReconciler(rates adapters.RateRepository) *Reconciler {
	return &Reconciler{rates: rates}
}
