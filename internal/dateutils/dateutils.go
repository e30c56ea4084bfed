// Package dateutils provides the date parsing and formatting helpers used
// throughout the application. All persisted dates are ISO calendar dates.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayoutISO is the canonical date layout (YYYY-MM-DD) used for storage
// and for the extraction oracle's structured output.
const DateLayoutISO = "2006-01-02"

// commonFormats are the explicit date formats accepted from user input and
// from the extraction oracle, tried in order.
var commonFormats = []string{
	DateLayoutISO,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02/01/2006",
	"2.1.2006",
}

// relativeDays maps relative date terms, in English and Vietnamese, to an
// offset in days from today.
var relativeDays = map[string]int{
	"today":                       0,
	"hôm nay":                     0,
	"yesterday":                   -1,
	"hôm qua":                     -1,
	"the day before yesterday":    -2,
	"day before yesterday":        -2,
	"hôm kia":                     -2,
}

// Resolve converts a date expression into a calendar date. It understands
// relative terms (today, yesterday, the day before yesterday), the explicit
// formats in commonFormats, and the empty string, which resolves to today.
func Resolve(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Truncate(now), nil
	}

	if offset, ok := relativeDays[strings.ToLower(expr)]; ok {
		return Truncate(now.AddDate(0, 0, offset)), nil
	}

	for _, format := range commonFormats {
		if t, err := time.Parse(format, expr); err == nil {
			return Truncate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", expr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// Truncate drops the time-of-day component.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// YearMonth renders a year and month as the YYYY-MM key used by the store's
// monthly aggregation queries.
func YearMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
