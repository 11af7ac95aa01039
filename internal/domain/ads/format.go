package ads

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCount formats a count with a magnitude suffix: 1.2M, 25.4k, 892.
func FormatCount(n float64) string {
	if math.IsNaN(n) {
		return "0"
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", n/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fk", n/1_000)
	}
	return strconv.FormatInt(int64(n), 10)
}

// FormatCurrency formats a monetary amount as "$1234.56".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatPercent formats a percentage as "2.85%".
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatDecimal formats a plain two-decimal value such as ROAS.
func FormatDecimal(v float64) string {
	if math.IsNaN(v) {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatDateAPI formats a date the way provider query APIs expect (YYYY-MM-DD).
func FormatDateAPI(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateInput formats a date to the dd/mm/yyyy display-input convention.
func FormatDateInput(t time.Time) string {
	return t.Format("02/01/2006")
}

// ParseDisplayDate parses a dd/mm/yyyy input string. It reports false for
// malformed strings and out-of-bound components (day 1-31, month 1-12,
// year >= 1900); callers treat a failed parse as "ignore this edit".
func ParseDisplayDate(value string) (time.Time, bool) {
	if !strings.Contains(value, "/") {
		return time.Time{}, false
	}

	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// PercentChange computes the period-over-period change between two values.
// A zero previous value yields 100 for any growth and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
