package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount as "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	s := amount.StringFixed(2) // e.g. "-1234.56"
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], "00"
	if len(parts) == 2 {
		fracPart = parts[1]
	}

	var grouped strings.Builder
	for i, c := range intPart {
		if i != 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(c)
	}

	out := "R$ " + grouped.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// ParseMoney parses a decimal amount, accepting both "1234.56" and the
// localized "1.234,56" form.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
