package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartSumTotal(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{Quantity: 2, Product: &Product{Price: decimal.RequireFromString("10.00")}},
			{Quantity: 1, Product: &Product{Price: decimal.RequireFromString("12.99")}},
			{Quantity: 3, Product: nil},
		},
	}
	if got := cart.SumTotal(); !got.Equal(decimal.RequireFromString("32.99")) {
		t.Fatalf("expected 32.99, got %s", got)
	}
}

func TestCartSumTotalEmpty(t *testing.T) {
	var cart Cart
	if got := cart.SumTotal(); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}

func TestCartItemCount(t *testing.T) {
	cart := Cart{Items: []CartItem{{Quantity: 2}, {Quantity: 5}}}
	if got := cart.ItemCount(); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
