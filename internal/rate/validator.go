package rate

import (
	"errors"
	"strings"
	"time"

	"ecbrates/internal/domain"
)

var (
	ErrBadCurrencyCode = errors.New("currency codes must be comma-separated 3-letter codes")
	ErrBadStartPeriod  = errors.New("startPeriod must be formatted YYYY-MM-DD")
	ErrBadEndPeriod    = errors.New("endPeriod must be formatted YYYY-MM-DD")
	ErrPeriodOrder     = errors.New("startPeriod must not be after endPeriod")
)

// ParseFilter turns the raw query parameters into a RateFilter. A bad
// filter never reaches storage, the caller answers with the error as-is.
func ParseFilter(codesParam, startParam, endParam string) (domain.RateFilter, error) {
	var filter domain.RateFilter

	if codesParam != "" {
		for _, part := range strings.Split(codesParam, ",") {
			code := strings.ToUpper(strings.TrimSpace(part))
			if !validCode(code) {
				return domain.RateFilter{}, ErrBadCurrencyCode
			}
			filter.Codes = append(filter.Codes, code)
		}
	}

	if startParam != "" {
		start, err := time.Parse("2006-01-02", startParam)
		if err != nil {
			return domain.RateFilter{}, ErrBadStartPeriod
		}
		filter.Start = &start
	}
	if endParam != "" {
		end, err := time.Parse("2006-01-02", endParam)
		if err != nil {
			return domain.RateFilter{}, ErrBadEndPeriod
		}
		filter.End = &end
	}
	if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return domain.RateFilter{}, ErrPeriodOrder
	}

	return filter, nil
}

func validCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
