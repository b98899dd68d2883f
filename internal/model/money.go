package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the Brazilian way: "R$ 1.234,56".
func FormatMoney(symbol string, amount decimal.Decimal) string {
	if symbol == "" {
		symbol = "R$"
	}

	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteByte(' ')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
