package cart

import (
	"context"
	"errors"
	"testing"

	"shopcart-api/internal/domain"

	"github.com/shopspring/decimal"
)

type stubCartRepo struct {
	cart         *domain.Cart
	cartErr      error
	created      *domain.Cart
	createErr    error
	item         *domain.CartItem
	upsertErr    error
	contains     bool
	containsErr  error
	updateErr    error
	deleteErr    error
	lastCartID   int64
	lastProduct  int64
	lastItemID   int64
	lastQuantity int
}

func (s *stubCartRepo) GetOrCreateByCode(_ context.Context, _ string) (*domain.Cart, error) {
	return s.created, s.createErr
}

func (s *stubCartRepo) GetByCode(_ context.Context, _ string, _ bool) (*domain.Cart, error) {
	return s.cart, s.cartErr
}

func (s *stubCartRepo) UpsertItem(_ context.Context, cartID, productID int64) (*domain.CartItem, error) {
	s.lastCartID = cartID
	s.lastProduct = productID
	return s.item, s.upsertErr
}

func (s *stubCartRepo) ContainsProduct(_ context.Context, cartID, productID int64) (bool, error) {
	s.lastCartID = cartID
	s.lastProduct = productID
	return s.contains, s.containsErr
}

func (s *stubCartRepo) UpdateItemQuantity(_ context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	s.lastItemID = itemID
	s.lastQuantity = quantity
	return s.item, s.updateErr
}

func (s *stubCartRepo) DeleteItem(_ context.Context, itemID int64) error {
	s.lastItemID = itemID
	return s.deleteErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
}

func (s *stubProductRepo) GetByID(_ context.Context, _ int64) (*domain.Product, error) {
	return s.product, s.err
}

func TestAddItemRequiresCartCode(t *testing.T) {
	svc := New(&stubCartRepo{}, &stubProductRepo{})
	_, err := svc.AddItem(context.Background(), "   ", 3)
	if err == nil || err.Error() != "cart_code required" {
		t.Fatalf("expected cart_code validation error, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := New(&stubCartRepo{}, &stubProductRepo{err: domain.ErrNotFound})
	_, err := svc.AddItem(context.Background(), "cart-1", 99)
	if err == nil || err.Error() != "product not found" {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestAddItemHappyPath(t *testing.T) {
	product := &domain.Product{ID: 3, Name: "Classic Tee", Price: decimal.RequireFromString("10.00")}
	repo := &stubCartRepo{
		created: &domain.Cart{ID: 7, Code: "cart-1"},
		item:    &domain.CartItem{ID: 11, CartID: 7, ProductID: 3, Quantity: 1},
	}
	svc := New(repo, &stubProductRepo{product: product})

	item, err := svc.AddItem(context.Background(), "cart-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCartID != 7 || repo.lastProduct != 3 {
		t.Fatalf("upsert called with cart=%d product=%d", repo.lastCartID, repo.lastProduct)
	}
	if item.Product == nil || item.Product.ID != 3 {
		t.Fatalf("expected product attached to item, got %+v", item)
	}
}

func TestContainsProductMissingCart(t *testing.T) {
	svc := New(&stubCartRepo{cartErr: domain.ErrNotFound}, &stubProductRepo{})
	in, err := svc.ContainsProduct(context.Background(), "nope", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in {
		t.Fatalf("a cart that does not exist contains nothing")
	}
}

func TestUpdateQuantityValidation(t *testing.T) {
	svc := New(&stubCartRepo{}, &stubProductRepo{})
	for _, q := range []int{0, -1} {
		if _, err := svc.UpdateQuantity(context.Background(), 11, q); err == nil {
			t.Fatalf("expected validation error for quantity %d", q)
		}
	}
}

func TestUpdateQuantity(t *testing.T) {
	repo := &stubCartRepo{item: &domain.CartItem{ID: 11, ProductID: 3, Quantity: 4}}
	svc := New(repo, &stubProductRepo{product: &domain.Product{ID: 3}})

	item, err := svc.UpdateQuantity(context.Background(), 11, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastItemID != 11 || repo.lastQuantity != 4 {
		t.Fatalf("update called with item=%d quantity=%d", repo.lastItemID, repo.lastQuantity)
	}
	if item.Product == nil || item.Product.ID != 3 {
		t.Fatalf("expected product attached, got %+v", item)
	}
}

func TestDeleteItemPropagatesNotFound(t *testing.T) {
	svc := New(&stubCartRepo{deleteErr: domain.ErrNotFound}, &stubProductRepo{})
	if err := svc.DeleteItem(context.Background(), 11); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
