package transaction

import (
	"context"
	"errors"
	"os"
	"testing"

	"shopcart-api/internal/domain"
	"shopcart-api/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE transactions, cart_items, carts, tokens, users, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func seedCart(ctx context.Context, t *testing.T, pool *pgxpool.Pool) (cartID, userID int64) {
	t.Helper()
	if err := pool.QueryRow(ctx, `INSERT INTO users (email, username, password_hash) VALUES ('a@b.com', 'ann', 'x') RETURNING id`).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO carts (code) VALUES ('cart-1') RETURNING id`).Scan(&cartID); err != nil {
		t.Fatalf("insert cart: %v", err)
	}
	return cartID, userID
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	cartID, userID := seedCart(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateInput{
		Ref:       "ref-1",
		CartID:    cartID,
		UserID:    userID,
		Amount:    decimal.RequireFromString("14.00"),
		Currency:  "NGN",
		Processor: domain.ProcessorFlutterwave,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.TxPending || !created.Amount.Equal(decimal.RequireFromString("14.00")) {
		t.Fatalf("unexpected transaction %+v", created)
	}

	fetched, err := repo.GetByRef(ctx, "ref-1")
	if err != nil {
		t.Fatalf("GetByRef: %v", err)
	}
	if fetched.ID != created.ID || fetched.Currency != "NGN" {
		t.Fatalf("unexpected transaction %+v", fetched)
	}

	if _, err := repo.GetByRef(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_CompleteMarksCartPaid(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	cartID, userID := seedCart(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Create(ctx, CreateInput{
		Ref:       "ref-1",
		CartID:    cartID,
		UserID:    userID,
		Amount:    decimal.RequireFromString("14.00"),
		Currency:  "NGN",
		Processor: domain.ProcessorFlutterwave,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Complete(ctx, "ref-1", userID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var paid bool
	var owner *int64
	if err := pool.QueryRow(ctx, `SELECT paid, user_id FROM carts WHERE id = $1`, cartID).Scan(&paid, &owner); err != nil {
		t.Fatalf("select cart: %v", err)
	}
	if !paid || owner == nil || *owner != userID {
		t.Fatalf("cart not settled: paid=%v owner=%v", paid, owner)
	}

	// The second completion must not run the mutation again.
	if err := repo.Complete(ctx, "ref-1", userID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	if err := repo.Complete(ctx, "nope", userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_FinalizedTransactionCannotComplete(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	cartID, userID := seedCart(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Create(ctx, CreateInput{
		Ref:       "ref-1",
		CartID:    cartID,
		UserID:    userID,
		Amount:    decimal.RequireFromString("14.00"),
		Currency:  "USD",
		Processor: domain.ProcessorPayPal,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.MarkCancelled(ctx, "ref-1"); err != nil {
		t.Fatalf("MarkCancelled: %v", err)
	}

	txn, err := repo.GetByRef(ctx, "ref-1")
	if err != nil {
		t.Fatalf("GetByRef: %v", err)
	}
	if txn.Status != domain.TxCancelled {
		t.Fatalf("expected cancelled, got %s", txn.Status)
	}

	if err := repo.Complete(ctx, "ref-1", userID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	// Finalizing a terminal transaction again is a no-op, not an error.
	if err := repo.MarkFailed(ctx, "ref-1"); err != nil {
		t.Fatalf("MarkFailed on terminal: %v", err)
	}
	txn, err = repo.GetByRef(ctx, "ref-1")
	if err != nil {
		t.Fatalf("GetByRef: %v", err)
	}
	if txn.Status != domain.TxCancelled {
		t.Fatalf("terminal status must be preserved, got %s", txn.Status)
	}
}
