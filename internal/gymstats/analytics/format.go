package analytics

import (
	"fmt"
	"math"
	"strconv"
)

// FormatWeight renders a weight compactly: 999, 1.5k, 1.2M. Non-finite input renders as "0".
func FormatWeight(w float64) string {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return "0"
	}

	abs := math.Abs(w)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", w/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", w/1_000)
	}

	rounded := math.Round(w)
	if rounded == 0 {
		// avoid "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64)
}

// FormatPercentChange renders a signed percentage. Magnitudes below 0.1 render as 0 with the
// sign kept ("-0%"), below 10 with one decimal ("+7.2%"), otherwise as an integer ("+12%").
func FormatPercentChange(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "0%"
	}

	sign := ""
	if p > 0 {
		sign = "+"
	} else if p < 0 {
		sign = "-"
	}

	abs := math.Abs(p)
	switch {
	case abs < 0.1:
		return sign + "0%"
	case abs < 10:
		return fmt.Sprintf("%s%.1f%%", sign, abs)
	default:
		return fmt.Sprintf("%s%.0f%%", sign, abs)
	}
}
