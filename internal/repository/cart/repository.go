package cart

import (
	"context"

	"shopcart-api/internal/domain"
)

type Repository interface {
	// GetOrCreateByCode returns the cart with the given code, creating it on
	// first use. Never fails with a duplicate for the same code.
	GetOrCreateByCode(ctx context.Context, code string) (*domain.Cart, error)

	// GetByCode loads a cart with its items and product details.
	// When unpaidOnly is set, paid carts are reported as not found.
	GetByCode(ctx context.Context, code string, unpaidOnly bool) (*domain.Cart, error)

	// UpsertItem adds the product to the cart, resetting quantity to 1
	// whether or not an item row already existed for the pair.
	UpsertItem(ctx context.Context, cartID, productID int64) (*domain.CartItem, error)

	ContainsProduct(ctx context.Context, cartID, productID int64) (bool, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
}
