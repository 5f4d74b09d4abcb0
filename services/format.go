package services

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatUSD formats an amount as US dollars with thousands separators and
// exactly two decimals, e.g. $12,345.60.
func FormatUSD(amount float64) string {
	if amount < 0 {
		return "-" + FormatUSD(-amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// FormatUSDWhole formats an amount as whole US dollars, e.g. $12,346.
func FormatUSDWhole(amount float64) string {
	if amount < 0 {
		return "-" + FormatUSDWhole(-amount)
	}
	return "$" + humanize.Comma(int64(math.Round(amount)))
}

// FormatPercent renders a 0..1 fraction as a whole percentage, e.g. 30%.
func FormatPercent(fraction float64) string {
	return humanize.Ftoa(math.Round(fraction*100)) + "%"
}
