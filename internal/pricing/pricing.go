// Package pricing derives the totals of a cart.
package pricing

import (
	"github.com/shopspring/decimal"

	"petshop/m/internal/cart"
)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Final    decimal.Decimal `json:"final"`
}

// Subtotal sums unit price × quantity over all lines.
func Subtotal(lines []cart.Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Final is subtotal minus discount, floored at zero. The discount is not
// checked against the subtotal.
func Final(subtotal, discount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, subtotal.Sub(discount))
}

// Calculate prices lines with a flat discount. A negative discount counts as
// zero.
func Calculate(lines []cart.Line, discount decimal.Decimal) Totals {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	subtotal := Subtotal(lines)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Final:    Final(subtotal, discount),
	}
}
