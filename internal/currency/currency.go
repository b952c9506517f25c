// Package currency centralizes money rounding and formatting so that
// line totals and request totals come out identical wherever they are
// computed.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are VND, rounded half-up to whole dong.
const decimalPlaces = 0

// Line carries the pricing fields of a single billable line.
type Line struct {
	Price    decimal.Decimal
	Discount decimal.Decimal
	Quantity int
	VATRate  decimal.Decimal
}

// LineTotal computes (price - discount) * quantity * (1 + vatRate),
// rounded half-up to whole dong.
func LineTotal(price, discount decimal.Decimal, quantity int, vatRate decimal.Decimal) decimal.Decimal {
	net := price.Sub(discount).Mul(decimal.NewFromInt(int64(quantity)))
	withVAT := net.Add(net.Mul(vatRate))
	return withVAT.Round(decimalPlaces)
}

// RequestTotal sums the line totals and rounds the result to whole dong.
func RequestTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Price, l.Discount, l.Quantity, l.VATRate))
	}
	return total.Round(decimalPlaces)
}

// Format renders an amount with thousands separators for display,
// e.g. 1980000 -> "1,980,000".
func Format(amount decimal.Decimal) string {
	s := amount.Round(decimalPlaces).String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
