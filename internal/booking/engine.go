// Package booking implements the availability engine: pure checks that
// decide whether a costume can be booked on given dates. Callers load the
// costume and its blocking rental ranges from the repository layer and
// hand them to these functions, which keeps the rules trivially testable.
package booking

import (
	"time"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

// Range is an inclusive calendar date range [Start, End].
type Range struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether day falls inside the range, bounds included.
func (r Range) Covers(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Overlaps reports whether two inclusive ranges share at least one day.
// It is the three-way test used at booking time: a starts inside b, a
// ends inside b, or a fully contains b.
func Overlaps(a, b Range) bool {
	return b.Covers(a.Start) || b.Covers(a.End) || (a.Start.Before(b.Start) && a.End.After(b.End))
}

// DayAvailable reports whether the costume is bookable on a single day,
// combining the costume's own calendar constraints with the set of
// blocking (pending/confirmed) rental ranges.
func DayAvailable(c model.Costume, day time.Time, booked []Range) bool {
	if !c.AllowsDate(day) {
		return false
	}
	for _, r := range booked {
		if r.Covers(day) {
			return false
		}
	}
	return true
}

// Partition walks every calendar day in [start, end] and splits the days
// into available and unavailable date strings. The two slices are
// disjoint and their union is exactly the queried range.
func Partition(c model.Costume, start, end time.Time, booked []Range) (available, unavailable []string) {
	available = []string{}
	unavailable = []string{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		s := day.Format(model.DateLayout)
		if DayAvailable(c, day, booked) {
			available = append(available, s)
		} else {
			unavailable = append(unavailable, s)
		}
	}
	return available, unavailable
}

// FirstUnavailable returns the first day in [start, end] that is not
// bookable, or the zero time when every day passes. Booking runs this
// before the overlap test so the client learns the exact offending date.
func FirstUnavailable(c model.Costume, start, end time.Time, booked []Range) (time.Time, bool) {
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !DayAvailable(c, day, booked) {
			return day, true
		}
	}
	return time.Time{}, false
}

// ConflictsWith reports whether the requested range overlaps any blocking
// rental range.
func ConflictsWith(req Range, booked []Range) bool {
	for _, r := range booked {
		if Overlaps(req, r) {
			return true
		}
	}
	return false
}

// Days returns the inclusive day count of a range; a one-day rental
// counts as 1.
func Days(start, end time.Time) int64 {
	return int64(end.Sub(start)/(24*time.Hour)) + 1
}

// TotalPriceCents computes the rental price: price per day times the
// inclusive number of days.
func TotalPriceCents(pricePerDayCents int64, start, end time.Time) int64 {
	return pricePerDayCents * Days(start, end)
}

// ParseDate parses a YYYY-MM-DD wire date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, time.UTC)
}
