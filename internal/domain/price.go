package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a non-negative decimal price.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid price %q: must be >= 0", s)
	}
	return d, nil
}

// FormatPrice renders a price with exactly two decimal digits.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
