package engine

import (
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ============================================================================
// FORMATTING — Currency, percentages, ordinals
// ============================================================================
// Currency always renders with 2 decimals, percentages with 1.
// ============================================================================

// FormatMoney renders an amount as "$1234.50".
func FormatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatAmount renders an amount with 2 decimals and no currency sign.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatPercent renders a percentage value with 1 decimal, without the sign.
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(1)
}

// PercentOf returns part/base*100, or 0 when base is 0.
func PercentOf(part, base float64) float64 {
	if base == 0 {
		return 0
	}
	return part / base * 100
}

// Ordinal renders 1 → "1st", 2 → "2nd", 11 → "11th", 22 → "22nd".
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ClipRunes returns the first n runes of s.
func ClipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Truncate clips s to n runes, marking a cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return ClipRunes(s, n) + "..."
}
