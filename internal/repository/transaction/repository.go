package transaction

import (
	"context"
	"errors"

	"shopcart-api/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrAlreadyCompleted signals the transaction already reached its
	// terminal completed state; callers treat this as a duplicate callback.
	ErrAlreadyCompleted = errors.New("transaction already completed")
	// ErrNotPending signals the transaction is in a terminal state other
	// than completed and can no longer transition.
	ErrNotPending = errors.New("transaction not pending")
)

type CreateInput struct {
	Ref       string
	CartID    int64
	UserID    int64
	Amount    decimal.Decimal
	Currency  string
	Processor string
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Transaction, error)
	GetByRef(ctx context.Context, ref string) (*domain.Transaction, error)

	// Complete atomically moves the transaction from pending to completed
	// and marks its cart paid, attributed to ownerID, in one database
	// transaction. Returns ErrAlreadyCompleted if a prior reconciliation
	// won the race, ErrNotPending for other terminal states and
	// domain.ErrNotFound for an unknown ref.
	Complete(ctx context.Context, ref string, ownerID int64) error

	// MarkFailed and MarkCancelled move a pending transaction to the given
	// terminal state; they are no-ops when the transaction already left
	// pending.
	MarkFailed(ctx context.Context, ref string) error
	MarkCancelled(ctx context.Context, ref string) error
}
