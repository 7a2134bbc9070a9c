package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a shopping session keyed by an opaque, caller-supplied code.
// It stays anonymous until a successful payment reconciliation binds it
// to the user who initiated the paying transaction.
type Cart struct {
	ID        int64      `json:"id"`
	Code      string     `json:"cart_code"`
	Paid      bool       `json:"paid"`
	UserID    *int64     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	Items     []CartItem `json:"items,omitempty"`
}

type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cartId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemCount is the total quantity across all items.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// SumTotal is the item subtotal, before any service charge.
func (c Cart) SumTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
