package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders minor units as a fixed-point string with the given
// number of decimals, trimming trailing zeros down to two places.
func FormatAmount(minor int64, decimals int32) string {
	s := decimal.New(minor, -decimals).StringFixed(decimals)
	if decimals <= 2 || !strings.Contains(s, ".") {
		return s
	}
	dot := strings.IndexByte(s, '.')
	end := len(s)
	for end > dot+3 && s[end-1] == '0' {
		end--
	}
	return s[:end]
}

// ParseAmount converts a decimal string ("150", "150.5", "0.00000001") into
// minor units. More fractional digits than decimals is an error rather than
// a silent truncation.
func ParseAmount(amountStr string, decimals int32) (int64, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return 0, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(amountStr)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %s", amountStr)
	}

	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amountStr, decimals)
	}
	if shifted.Abs().GreaterThan(decimal.New(1, 18)) {
		return 0, fmt.Errorf("amount %s is out of range", amountStr)
	}

	return shifted.IntPart(), nil
}

// ToMinorUnits converts a tolerance such as "0.000001" into whole minor
// units, rounding down.
func ToMinorUnits(value string, decimals int32) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("decimal %q must not be negative", value)
	}
	return d.Shift(decimals).Floor().IntPart(), nil
}
