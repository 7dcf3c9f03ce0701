package rate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFilter_Empty(t *testing.T) {
	filter, err := ParseFilter("", "", "")
	require.NoError(t, err)
	require.Empty(t, filter.Codes)
	require.Nil(t, filter.Start)
	require.Nil(t, filter.End)
}

func TestParseFilter_CodesAreTrimmedAndUppercased(t *testing.T) {
	filter, err := ParseFilter(" usd ,jpy", "", "")
	require.NoError(t, err)
	require.Equal(t, []string{"USD", "JPY"}, filter.Codes)
}

func TestParseFilter_BadCode(t *testing.T) {
	cases := []string{"US", "DOLLAR", "U$D", "USD,,JPY", "USD,"}
	for _, codes := range cases {
		_, err := ParseFilter(codes, "", "")
		require.ErrorIs(t, err, ErrBadCurrencyCode, "codes=%q", codes)
	}
}

func TestParseFilter_DateRange(t *testing.T) {
	filter, err := ParseFilter("", "2024-01-02", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *filter.Start)
	require.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *filter.End)
}

func TestParseFilter_BadDates(t *testing.T) {
	_, err := ParseFilter("", "02.01.2024", "")
	require.ErrorIs(t, err, ErrBadStartPeriod)

	_, err = ParseFilter("", "", "not-a-date")
	require.ErrorIs(t, err, ErrBadEndPeriod)
}

func TestParseFilter_StartAfterEnd(t *testing.T) {
	_, err := ParseFilter("", "2024-02-01", "2024-01-01")
	require.ErrorIs(t, err, ErrPeriodOrder)
}

func TestParseFilter_SingleBound(t *testing.T) {
	filter, err := ParseFilter("", "2024-01-02", "")
	require.NoError(t, err)
	require.NotNil(t, filter.Start)
	require.Nil(t, filter.End)
}
