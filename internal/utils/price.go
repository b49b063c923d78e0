package utils

import (
	"errors"
	"fmt"
	"strings"
)

// Prices are stored as integer cents and rendered as two-decimal strings
// on the wire ("20.00"). Parsing accepts "20", "20.5" and "20.50".

var ErrBadPrice = errors.New("invalid price")

// ParsePrice converts a decimal string into cents. Negative values and
// more than two fractional digits are rejected.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, ErrBadPrice
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrBadPrice
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var cents int64
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return 0, ErrBadPrice
		}
		cents = cents*10 + int64(c-'0')
		if cents < 0 { // overflow
			return 0, ErrBadPrice
		}
	}
	return cents, nil
}

// FormatPrice renders cents as a two-decimal string, e.g. 2050 -> "20.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
