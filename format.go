package findash

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
	thousand = decimal.New(1, 3)
)

// FormatMetric renders a metric value for display in its unit.
// Missing values render as "N/A".
func FormatMetric(v *float64, unit Unit) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "N/A"
	}

	value := decimal.NewFromFloat(*v)
	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}

	switch unit {
	case UnitUSD:
		return sign + "$" + scaled(value, 2)
	case UnitShares:
		return sign + scaled(value, 0) + " shares"
	case UnitPercentage:
		return sign + value.StringFixed(2) + "%"
	default:
		return sign + groupThousands(value.Round(0).String())
	}
}

// scaled writes B/M suffixes for large values; smaller ones keep
// smallPlaces decimals with thousands grouping.
func scaled(value decimal.Decimal, smallPlaces int32) string {
	switch {
	case value.GreaterThanOrEqual(billion):
		return value.Div(billion).StringFixed(2) + "B"
	case value.GreaterThanOrEqual(million):
		// 999.96M rounds to 1000.0M; show it as 1.00B instead
		if m := value.Div(million).Round(1); m.LessThan(thousand) {
			return m.StringFixed(1) + "M"
		}
		return value.Div(billion).StringFixed(2) + "B"
	}
	return groupThousands(value.StringFixed(smallPlaces))
}

// FormatChange renders a period-over-period change, e.g. "↑ 12.34% YoY"
func FormatChange(pct *float64) string {
	if pct == nil || math.IsNaN(*pct) {
		return ""
	}
	value := decimal.NewFromFloat(*pct)
	arrow := ""
	switch value.Sign() {
	case 1:
		arrow = "↑ "
	case -1:
		arrow = "↓ "
	}
	return fmt.Sprintf("%s%s%% YoY", arrow, value.Abs().StringFixed(2))
}

// FormatPrice renders an IPO price or price range
func FormatPrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return "N/A"
	}
	return "$" + price
}

// FormatWholeDollars renders a dollar amount without cents, e.g. "$1,234,568"
func FormatWholeDollars(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "N/A"
	}
	value := decimal.NewFromFloat(v).Round(0)
	if value.IsNegative() {
		return "-$" + groupThousands(value.Abs().String())
	}
	return "$" + groupThousands(value.String())
}

// FormatShares renders a share count with thousands separators
func FormatShares(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "N/A"
	}
	return groupThousands(decimal.NewFromFloat(v).String())
}

// groupThousands inserts commas into the integer part of a plain decimal string
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
