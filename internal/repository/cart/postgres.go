package cart

import (
	"context"
	"errors"

	"shopcart-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreateByCode(ctx context.Context, code string) (*domain.Cart, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
	const q = `
INSERT INTO carts (code)
VALUES ($1)
ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
RETURNING id, code, paid, user_id, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, code).Scan(
		&cart.ID,
		&cart.Code,
		&cart.Paid,
		&cart.UserID,
		&cart.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string, unpaidOnly bool) (*domain.Cart, error) {
	q := `
SELECT id, code, paid, user_id, created_at
FROM carts
WHERE code = $1
`
	if unpaidOnly {
		q += `AND paid = FALSE`
	}
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&cart.ID,
		&cart.Code,
		&cart.Paid,
		&cart.UserID,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT i.id, i.cart_id, i.product_id, i.quantity, i.created_at,
       p.id, p.slug, p.name, p.description, p.image_url, p.price::text, p.created_at
FROM cart_items i
JOIN products p ON p.id = i.product_id
WHERE i.cart_id = $1
ORDER BY i.created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		var product domain.Product
		var price string
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&product.ID,
			&product.Slug,
			&product.Name,
			&product.Description,
			&product.ImageURL,
			&price,
			&product.CreatedAt,
		); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		product.Price = parsed
		item.Product = &product
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *postgresRepo) UpsertItem(ctx context.Context, cartID, productID int64) (*domain.CartItem, error) {
	const q = `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = 1
RETURNING id, cart_id, product_id, quantity, created_at
`
	var item domain.CartItem
	if err := r.pool.QueryRow(ctx, q, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) ContainsProduct(ctx context.Context, cartID, productID int64) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1 FROM cart_items WHERE cart_id = $1 AND product_id = $2
)
`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, cartID, productID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	const q = `
UPDATE cart_items
SET quantity = $1
WHERE id = $2
RETURNING id, cart_id, product_id, quantity, created_at
`
	var item domain.CartItem
	err := r.pool.QueryRow(ctx, q, quantity, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) DeleteItem(ctx context.Context, itemID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
