package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestImageStoredWinsOverURL(t *testing.T) {
	url := "https://example.com/pic.jpg"
	path := "costumes/abc.png"

	c := Costume{ImageURL: &url}
	assert.Equal(t, ImageSource{Kind: ImageURL, Ref: url}, c.Image())

	c.ImagePath = &path
	assert.Equal(t, ImageSource{Kind: ImageStored, Ref: path}, c.Image())

	assert.Equal(t, ImageSource{}, Costume{}.Image())
}

func TestRentable(t *testing.T) {
	assert.True(t, Costume{Published: true, Availability: true}.Rentable())
	assert.False(t, Costume{Published: false, Availability: true}.Rentable())
	assert.False(t, Costume{Published: true, Availability: false}.Rentable())
}

func TestAllowsDateEmptyAllowListBlocksEverything(t *testing.T) {
	c := Costume{Published: true, Availability: true, AvailabilityDates: []string{}}
	assert.False(t, c.AllowsDate(day(t, "2026-04-01")))
}

func TestAllowsDateNilAllowListMeansUnrestricted(t *testing.T) {
	c := Costume{Published: true, Availability: true}
	assert.True(t, c.AllowsDate(day(t, "2026-04-01")))
}

func TestAllowsDateBoundsInclusive(t *testing.T) {
	from := day(t, "2026-04-10")
	until := day(t, "2026-04-12")
	c := Costume{Published: true, Availability: true, AvailableFrom: &from, AvailableUntil: &until}

	assert.False(t, c.AllowsDate(day(t, "2026-04-09")))
	assert.True(t, c.AllowsDate(day(t, "2026-04-10")))
	assert.True(t, c.AllowsDate(day(t, "2026-04-12")))
	assert.False(t, c.AllowsDate(day(t, "2026-04-13")))
}
