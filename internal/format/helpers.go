package format

import (
	"fmt"
	"math"
)

// FmtFloat formats v with three decimals. NaN renders as "n/a" so
// undefined effects stay readable in tables.
func FmtFloat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

// FmtMeanSD formats a summary as "mean ± sd (n=count)". A zero count
// renders as a dash.
func FmtMeanSD(mean, sd float64, count int) string {
	if count == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f ± %.3f (n=%d)", mean, sd, count)
}

// FmtCount formats an observation count with K suffix for readability.
func FmtCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%d", n)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
