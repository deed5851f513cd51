// Package money renders amounts the way the app shows them: Colombian peso
// style with '.' thousands and ',' decimals.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const maxFractionDigits = 3

// FormatCOP renders the absolute value of d as "$1.234.567,5". The sign is
// the caller's concern; transaction kind carries it.
func FormatCOP(d decimal.Decimal) string {
	return "$" + group(d.Abs().Round(maxFractionDigits))
}

// FormatSigned prefixes FormatCOP with "-" for negative values.
func FormatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatCOP(d)
	}
	return FormatCOP(d)
}

// FormatPct renders a percentage with no decimals, e.g. "42%".
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// ParseAmount reads a user-entered amount. A leading "$", spaces and "_"
// separators are ignored; the decimal point is '.'.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", " ", "", "_", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("parse amount: empty value")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

func group(d decimal.Decimal) string {
	s := d.String()
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
