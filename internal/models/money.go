package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroupAmount renders a decimal amount with thousands separators, the way
// confirmation summaries and budget alerts display money (e.g. 1500000 ->
// "1,500,000"). Fractional digits are dropped; stored amounts are whole
// currency units.
func GroupAmount(d decimal.Decimal) string {
	s := d.Round(0).String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
