package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData marks a 2xx response with an empty body: the source simply
	// published nothing for the requested day (weekend or market holiday).
	// Not a failure, the run ends cleanly without notifying anyone.
	ErrNoData = errors.New("no rates published for the requested day")

	// ErrMissingCurrencyDimension means a series key carries no CURRENCY
	// entry. The series is skipped, the rest of the document is processed.
	ErrMissingCurrencyDimension = errors.New("series key has no CURRENCY dimension")

	// ErrMalformedObservation means the date or the rate value of a single
	// observation could not be parsed. Only that observation is skipped.
	ErrMalformedObservation = errors.New("malformed observation")

	// ErrDuplicateRate is returned on an insert that hit the
	// (date, currency) unique constraint. Treated as "already ingested".
	ErrDuplicateRate = errors.New("rate already ingested")
)

// BadStatusError is returned when the rate source answers with a non-2xx
// status code.
type BadStatusError struct {
	Code int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("rate source returned status %d", e.Code)
}
