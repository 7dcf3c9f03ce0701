package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// ErrUnknownKey is returned for a day selector other than "today" or
// "yesterday". The caller prints a usage hint and aborts without side
// effects.
var ErrUnknownKey = errors.New("unknown key")

// SelectDay picks the day to request from the rate source, formatted
// YYYY-MM-DD in UTC.
//
// An explicit key ("today"/"yesterday") wins. Without a key the local
// time-of-day is compared against the cutover ("HH:MM"): before the cutover
// the source has likely not published yet, so yesterday is requested.
// The exact cutover minute counts as on-or-after and selects today.
func SelectDay(now time.Time, cutover string, key string) (string, error) {
	switch strings.ToLower(key) {
	case "today":
		return now.UTC().Format(dayFormat), nil
	case "yesterday":
		return now.UTC().AddDate(0, 0, -1).Format(dayFormat), nil
	case "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	co, err := time.Parse("15:04", cutover)
	if err != nil {
		return "", fmt.Errorf("invalid cutover time %q: %w", cutover, err)
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	cutoverMinutes := co.Hour()*60 + co.Minute()
	if nowMinutes >= cutoverMinutes {
		return now.UTC().Format(dayFormat), nil
	}
	return now.UTC().AddDate(0, 0, -1).Format(dayFormat), nil
}
