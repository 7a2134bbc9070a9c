package transaction

import (
	"context"
	"errors"
	"io"
	"log"

	"shopcart-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Transaction, error) {
	const q = `
INSERT INTO transactions (ref, cart_id, user_id, amount, currency, processor, status)
VALUES ($1, $2, $3, $4, $5, $6, 'pending')
RETURNING id, ref, cart_id, user_id, amount::text, currency, processor, status, created_at, updated_at
`
	tx, err := scanTransaction(r.pool.QueryRow(ctx, q,
		in.Ref, in.CartID, in.UserID, in.Amount.StringFixed(2), in.Currency, in.Processor))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("transaction repo: create ref=%s error=%v", in.Ref, err)
		return nil, err
	}
	return tx, nil
}

func (r *postgresRepo) GetByRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	const q = `
SELECT id, ref, cart_id, user_id, amount::text, currency, processor, status, created_at, updated_at
FROM transactions
WHERE ref = $1
`
	tx, err := scanTransaction(r.pool.QueryRow(ctx, q, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("transaction repo: get ref=%s error=%v", ref, err)
		return nil, err
	}
	return tx, nil
}

func (r *postgresRepo) Complete(ctx context.Context, ref string, ownerID int64) error {
	dbtx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer dbtx.Rollback(ctx)

	// Compare-and-set on status so only one of any concurrently delivered
	// callbacks performs the completion mutation.
	var cartID int64
	err = dbtx.QueryRow(ctx, `
UPDATE transactions
SET status = 'completed', updated_at = now()
WHERE ref = $1 AND status = 'pending'
RETURNING cart_id
`, ref).Scan(&cartID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		var status string
		if err := dbtx.QueryRow(ctx, `SELECT status FROM transactions WHERE ref = $1`, ref).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if status == domain.TxCompleted {
			return ErrAlreadyCompleted
		}
		return ErrNotPending
	}

	if _, err := dbtx.Exec(ctx, `
UPDATE carts
SET paid = TRUE, user_id = $1
WHERE id = $2
`, ownerID, cartID); err != nil {
		return err
	}

	return dbtx.Commit(ctx)
}

func (r *postgresRepo) MarkFailed(ctx context.Context, ref string) error {
	return r.finalize(ctx, ref, domain.TxFailed)
}

func (r *postgresRepo) MarkCancelled(ctx context.Context, ref string) error {
	return r.finalize(ctx, ref, domain.TxCancelled)
}

func (r *postgresRepo) finalize(ctx context.Context, ref, status string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE transactions
SET status = $1, updated_at = now()
WHERE ref = $2 AND status = 'pending'
`, status, ref)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Already terminal; leave the earlier outcome in place.
		r.logger.Printf("transaction repo: finalize ref=%s status=%s skipped, not pending", ref, status)
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amount string
	if err := row.Scan(
		&tx.ID,
		&tx.Ref,
		&tx.CartID,
		&tx.UserID,
		&amount,
		&tx.Currency,
		&tx.Processor,
		&tx.Status,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	tx.Amount = parsed
	return &tx, nil
}
