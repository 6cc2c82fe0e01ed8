// Package pricing computes discounted prices and renders currency and date
// values for order-form documents. Inputs arrive as raw form text: malformed
// or empty values are treated as absent, never as errors.
package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// DiscountedPrice applies a percentage discount to a base price. When either
// side is empty or does not parse, the base price is returned unchanged: an
// unpriced or undiscounted item is not an error. The result is rounded to two
// decimal places, rounding halves away from zero. Percentages outside [0,100]
// are computed as given, not clamped.
func DiscountedPrice(basePrice, discountPercent string) string {
	base, ok := parseDecimal(basePrice)
	if !ok {
		return basePrice
	}
	pct, ok := parseDecimal(discountPercent)
	if !ok {
		return basePrice
	}
	factor := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))
	return base.Mul(factor).Round(2).StringFixed(2)
}

// FormatCurrency renders a decimal string as US-dollar currency, e.g.
// "$1,234.50". Empty, malformed, and zero values render as the empty string.
func FormatCurrency(value string) string {
	d, ok := parseDecimal(value)
	if !ok || d.IsZero() {
		return ""
	}
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("$%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// FormatDate renders an ISO YYYY-MM-DD date in long form, e.g.
// "January 5, 2025". The input is parsed as a pure calendar date so the
// rendered day never drifts with the host time zone. Empty or malformed
// input renders as the empty string.
func FormatDate(isoDate string) string {
	trimmed := strings.TrimSpace(isoDate)
	if trimmed == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return ""
	}
	return t.Format("January 2, 2006")
}

func parseDecimal(value string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
