package chatbot

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// Bounds of an unrestricted search.
	rangeStart = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

	ErrInvalidDateRange = errors.New("date range ends before it starts")
)

// NormalizeDateRange turns the extracted bounds into an inclusive time range. Without bounds
// the range is unrestricted. Once either bound is given, the start is moved to today if it lies
// in the past and the end covers its whole day. Dates are read in now's location. A range that
// then ends before it starts is rejected.
func NormalizeDateRange(start, end *string, now time.Time) (time.Time, time.Time, error) {
	if start == nil && end == nil {
		return rangeStart, rangeEnd, nil
	}

	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	from, to := today, rangeEnd
	if start != nil {
		t, err := time.ParseInLocation(dateLayout, *start, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", *start, err)
		}
		from = t
	}
	if end != nil {
		t, err := time.ParseInLocation(dateLayout, *end, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", *end, err)
		}
		to = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	if from.Before(today) {
		from = today
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}
