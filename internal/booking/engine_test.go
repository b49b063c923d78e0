package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func rentableCostume() model.Costume {
	return model.Costume{
		ID:               1,
		Name:             "Pirate",
		PricePerDayCents: 2000,
		Availability:     true,
		Published:        true,
	}
}

func TestDayAvailableUnpublishedNeverAvailable(t *testing.T) {
	c := rentableCostume()
	c.Published = false

	for _, day := range []string{"2026-01-01", "2026-06-15", "2026-12-31"} {
		assert.False(t, DayAvailable(c, date(t, day), nil), "day %s", day)
	}
}

func TestDayAvailableFlagOff(t *testing.T) {
	c := rentableCostume()
	c.Availability = false
	assert.False(t, DayAvailable(c, date(t, "2026-06-15"), nil))
}

func TestDayAvailableBounds(t *testing.T) {
	c := rentableCostume()
	from := date(t, "2026-01-10")
	until := date(t, "2026-01-20")
	c.AvailableFrom = &from
	c.AvailableUntil = &until

	assert.False(t, DayAvailable(c, date(t, "2026-01-09"), nil))
	assert.True(t, DayAvailable(c, date(t, "2026-01-10"), nil))
	assert.True(t, DayAvailable(c, date(t, "2026-01-20"), nil))
	assert.False(t, DayAvailable(c, date(t, "2026-01-21"), nil))
}

func TestDayAvailableAllowList(t *testing.T) {
	c := rentableCostume()
	c.AvailabilityDates = []string{"2026-02-01", "2026-02-03"}

	assert.True(t, DayAvailable(c, date(t, "2026-02-01"), nil))
	assert.False(t, DayAvailable(c, date(t, "2026-02-02"), nil))
	assert.True(t, DayAvailable(c, date(t, "2026-02-03"), nil))
}

func TestDayAvailableBlockedByRental(t *testing.T) {
	c := rentableCostume()
	booked := []Range{{Start: date(t, "2026-03-05"), End: date(t, "2026-03-07")}}

	assert.True(t, DayAvailable(c, date(t, "2026-03-04"), booked))
	assert.False(t, DayAvailable(c, date(t, "2026-03-05"), booked))
	assert.False(t, DayAvailable(c, date(t, "2026-03-07"), booked))
	assert.True(t, DayAvailable(c, date(t, "2026-03-08"), booked))
}

func TestPartitionDisjointAndExhaustive(t *testing.T) {
	c := rentableCostume()
	until := date(t, "2026-01-31")
	from := date(t, "2026-01-01")
	c.AvailableFrom = &from
	c.AvailableUntil = &until

	start := date(t, "2026-01-15")
	end := date(t, "2026-02-15")
	booked := []Range{{Start: date(t, "2026-01-20"), End: date(t, "2026-01-25")}}

	available, unavailable := Partition(c, start, end, booked)

	// Every queried day lands in exactly one bucket.
	assert.Equal(t, int(Days(start, end)), len(available)+len(unavailable))
	seen := map[string]bool{}
	for _, d := range append(append([]string{}, available...), unavailable...) {
		assert.False(t, seen[d], "day %s reported twice", d)
		seen[d] = true
	}

	assert.Contains(t, available, "2026-01-15")
	assert.Contains(t, available, "2026-01-19")
	assert.Contains(t, unavailable, "2026-01-20") // booked
	assert.Contains(t, unavailable, "2026-01-25") // booked
	assert.Contains(t, available, "2026-01-26")
	assert.Contains(t, available, "2026-01-31")
	assert.Contains(t, unavailable, "2026-02-01") // past available_until
	assert.Contains(t, unavailable, "2026-02-15")
}

func TestOverlaps(t *testing.T) {
	base := Range{Start: date(t, "2026-05-10"), End: date(t, "2026-05-15")}

	cases := []struct {
		name string
		r    Range
		want bool
	}{
		{"before", Range{date(t, "2026-05-01"), date(t, "2026-05-09")}, false},
		{"after", Range{date(t, "2026-05-16"), date(t, "2026-05-20")}, false},
		{"touches start", Range{date(t, "2026-05-05"), date(t, "2026-05-10")}, true},
		{"touches end", Range{date(t, "2026-05-15"), date(t, "2026-05-18")}, true},
		{"inside", Range{date(t, "2026-05-11"), date(t, "2026-05-14")}, true},
		{"contains", Range{date(t, "2026-05-01"), date(t, "2026-05-31")}, true},
		{"identical", base, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.r, base))
			assert.Equal(t, tc.want, Overlaps(base, tc.r), "overlap must be symmetric")
		})
	}
}

func TestConflictsWith(t *testing.T) {
	booked := []Range{
		{date(t, "2026-07-01"), date(t, "2026-07-03")},
		{date(t, "2026-07-10"), date(t, "2026-07-12")},
	}
	assert.False(t, ConflictsWith(Range{date(t, "2026-07-05"), date(t, "2026-07-08")}, booked))
	assert.True(t, ConflictsWith(Range{date(t, "2026-07-08"), date(t, "2026-07-10")}, booked))
	assert.False(t, ConflictsWith(Range{date(t, "2026-07-05"), date(t, "2026-07-08")}, nil))
}

func TestFirstUnavailable(t *testing.T) {
	c := rentableCostume()
	booked := []Range{{Start: date(t, "2026-08-03"), End: date(t, "2026-08-04")}}

	day, bad := FirstUnavailable(c, date(t, "2026-08-01"), date(t, "2026-08-05"), booked)
	require.True(t, bad)
	assert.Equal(t, "2026-08-03", day.Format(model.DateLayout))

	_, bad = FirstUnavailable(c, date(t, "2026-08-05"), date(t, "2026-08-10"), nil)
	assert.False(t, bad)
}

func TestDaysAndTotalPrice(t *testing.T) {
	oneDay := date(t, "2026-09-01")
	assert.EqualValues(t, 1, Days(oneDay, oneDay))
	assert.EqualValues(t, 3, Days(date(t, "2026-09-01"), date(t, "2026-09-03")))

	assert.EqualValues(t, 2000, TotalPriceCents(2000, oneDay, oneDay))
	assert.EqualValues(t, 6000, TotalPriceCents(2000, date(t, "2026-09-01"), date(t, "2026-09-03")))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("28-02-2026")
	assert.Error(t, err)
	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)
}
