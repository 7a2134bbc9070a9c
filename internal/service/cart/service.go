package cart

import (
	"context"
	"errors"
	"strings"

	"shopcart-api/internal/domain"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	GetOrCreateByCode(ctx context.Context, code string) (*domain.Cart, error)
	GetByCode(ctx context.Context, code string, unpaidOnly bool) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID int64) (*domain.CartItem, error)
	ContainsProduct(ctx context.Context, cartID, productID int64) (bool, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

// AddItem puts the product in the cart identified by code, creating the cart
// on first use. Re-adding the same product resets its quantity to 1 instead
// of creating a second row.
func (s *Service) AddItem(ctx context.Context, cartCode string, productID int64) (*domain.CartItem, error) {
	code := strings.TrimSpace(cartCode)
	if code == "" {
		return nil, errors.New("cart_code required")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}

	cart, err := s.repo.GetOrCreateByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.UpsertItem(ctx, cart.ID, product.ID)
	if err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// ContainsProduct reports whether the product already sits in the cart.
// A cart that does not exist yet simply contains nothing.
func (s *Service) ContainsProduct(ctx context.Context, cartCode string, productID int64) (bool, error) {
	cart, err := s.repo.GetByCode(ctx, cartCode, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.repo.ContainsProduct(ctx, cart.ID, productID)
}

// Get loads the full unpaid cart with items and product details.
func (s *Service) Get(ctx context.Context, cartCode string) (*domain.Cart, error) {
	return s.repo.GetByCode(ctx, cartCode, true)
}

func (s *Service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	item, err := s.repo.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if product, perr := s.productRepo.GetByID(ctx, item.ProductID); perr == nil {
		item.Product = product
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID int64) error {
	return s.repo.DeleteItem(ctx, itemID)
}
