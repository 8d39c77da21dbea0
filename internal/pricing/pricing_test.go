package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"petshop/m/internal/cart"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateMixedCart(t *testing.T) {
	lines := []cart.Line{
		{Kind: cart.KindProduct, ItemID: uuid.New(), Quantity: 2, UnitPrice: money("10.00")},
		{Kind: cart.KindService, ItemID: uuid.New(), Quantity: 1, UnitPrice: money("15.00")},
	}

	totals := Calculate(lines, money("5.00"))

	assert.Equal(t, "35.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "30.00", totals.Final.StringFixed(2))
}

func TestFinalFloorsAtZero(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		discount string
		want     string
	}{
		{"no discount", "12.34", "0", "12.34"},
		{"partial", "12.34", "2.34", "10.00"},
		{"exact", "12.34", "12.34", "0.00"},
		{"exceeds", "12.34", "100", "0.00"},
		{"empty cart", "0", "3", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Final(money(tt.subtotal), money(tt.discount))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestSubtotalKeepsCents(t *testing.T) {
	lines := []cart.Line{
		{Quantity: 3, UnitPrice: money("0.10")},
		{Quantity: 1, UnitPrice: money("0.20")},
	}
	assert.True(t, Subtotal(lines).Equal(money("0.50")))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestCalculateIgnoresNegativeDiscount(t *testing.T) {
	lines := []cart.Line{{Quantity: 1, UnitPrice: money("8.00")}}

	totals := Calculate(lines, money("-2"))

	assert.True(t, totals.Discount.IsZero())
	assert.Equal(t, "8.00", totals.Final.StringFixed(2))
}
