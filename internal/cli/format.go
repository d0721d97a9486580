// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display format for completion dates.
const DateLayout = "2006-01-02"

// DefaultCurrency prefixes money when no symbol is configured.
const DefaultCurrency = "¥"

// ErrBadAmount indicates an unparsable or out-of-range amount.
var ErrBadAmount = errors.New("invalid amount")

// FormatMoney formats an amount with two decimals and comma grouping.
// e.g., 1234.5 -> "¥1,234.50"
func FormatMoney(amount float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, currency, FormatNumber(whole.IntPart()), cents)
}

// ParseAmount parses a user-entered amount such as "1,299.99" or "¥300".
// The result is rounded to cents. Negative values are rejected.
func ParseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimLeft(clean, "¥$€£ ")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, "_", "")
	if clean == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadAmount)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrBadAmount, s)
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

// ParsePrice is ParseAmount for wish prices, which must be positive.
func ParsePrice(s string) (float64, error) {
	f, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("%w: price must be greater than zero", ErrBadAmount)
	}
	return f, nil
}

// FormatDays formats a day count.
// e.g., 0 -> "now", 1 -> "1 day", 115 -> "115 days"
func FormatDays(n int) string {
	switch {
	case n <= 0:
		return "now"
	case n == 1:
		return "1 day"
	default:
		return FormatNumber(int64(n)) + " days"
	}
}

// FormatDate formats a completion date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// StalledNote explains why some wishes are never reached at dailyRate.
func StalledNote(dailyRate float64) string {
	if dailyRate <= 0 {
		return "Daily saving is zero: unfunded wishes are never reached."
	}
	return "Daily saving is too small: some wishes are never reached."
}
