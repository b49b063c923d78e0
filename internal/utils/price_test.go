package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"20", 2000},
		{"20.5", 2050},
		{"20.50", 2050},
		{"0.99", 99},
		{".50", 50},
		{"0", 0},
		{" 15.00 ", 1500},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParsePriceRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "-5", "20.505", "abc", "20.a0", "1,50"} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrBadPrice, "input %q", in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "20.00", FormatPrice(2000))
	assert.Equal(t, "20.50", FormatPrice(2050))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "-3.25", FormatPrice(-325))
}

func TestPriceRoundTrip(t *testing.T) {
	for _, s := range []string{"20.00", "0.99", "1234.05"} {
		cents, err := ParsePrice(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatPrice(cents))
	}
}
