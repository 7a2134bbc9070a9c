package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Slug        string
	Name        string
	Description string
	ImageURL    string
	Price       string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Slug:        "classic-tee",
			Name:        "Classic T-Shirt",
			Description: "Soft cotton tee",
			ImageURL:    "https://cdn.example.com/img/classic-tee.jpg",
			Price:       "10.00",
		},
		{
			Slug:        "canvas-sneakers",
			Name:        "Canvas Sneakers",
			Description: "Everyday low-top sneakers",
			ImageURL:    "https://cdn.example.com/img/canvas-sneakers.jpg",
			Price:       "45.50",
		},
		{
			Slug:        "ceramic-mug",
			Name:        "Ceramic Mug",
			Description: "Ceramic mug with shop logo",
			ImageURL:    "https://cdn.example.com/img/ceramic-mug.jpg",
			Price:       "12.99",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (slug, name, description, image_url, price)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    image_url = EXCLUDED.image_url,
    price = EXCLUDED.price
`
	_, err := pool.Exec(ctx, q, p.Slug, p.Name, p.Description, p.ImageURL, p.Price)
	return err
}
