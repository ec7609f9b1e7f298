package composer

import (
	"math"
	"strconv"
	"strings"
)

var compactSuffixes = []struct {
	threshold float64
	suffix    string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// formatCompact renders v with a magnitude suffix: 423000 -> "423K",
// 57168 -> "57.2K", 12.6 -> "12.6".
func formatCompact(v float64) string {
	abs := math.Abs(v)
	for _, s := range compactSuffixes {
		if abs >= s.threshold {
			return trimZero(strconv.FormatFloat(v/s.threshold, 'f', 1, 64)) + s.suffix
		}
	}
	return trimZero(strconv.FormatFloat(v, 'f', 1, 64))
}

func formatMoney(currency string, v float64) string {
	if v < 0 {
		return "-" + currency + formatCompact(-v)
	}
	return currency + formatCompact(v)
}

func formatPrice(currency string, v float64) string {
	if v < 0 {
		return "-" + currency + strconv.FormatFloat(-v, 'f', 2, 64)
	}
	return currency + strconv.FormatFloat(v, 'f', 2, 64)
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
