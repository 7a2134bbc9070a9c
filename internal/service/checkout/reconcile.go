package checkout

import (
	"context"
	"errors"
	"fmt"

	"shopcart-api/internal/domain"
	"shopcart-api/internal/gateway/flutterwave"
	txnrepo "shopcart-api/internal/repository/transaction"
)

// Reconciliation failure reasons, mapped to response statuses by the HTTP
// layer. A failed reconciliation never mutates the transaction or cart,
// with the single exception of a processor-verified terminal failure, which
// is recorded as failed/cancelled so it does not sit pending forever.
var (
	ErrMissingParams = errors.New("missing required parameters")
	// ErrNotSuccessful reports a callback whose own status flag was not
	// successful. Routing only; nothing is verified or mutated for it.
	ErrNotSuccessful = errors.New("payment was not successful")
	// ErrVerification covers transport failures reaching the processor's
	// verification endpoint.
	ErrVerification = errors.New("verification error")
	// ErrVerifyDeclined means the processor answered but did not report a
	// successful payment for the identifier.
	ErrVerifyDeclined = errors.New("verification failed")
	// ErrMismatch means the verified amount, currency or status does not
	// exactly match the stored transaction.
	ErrMismatch = errors.New("transaction details mismatch")
)

// Outcome reports whether reconciliation found the transaction already
// completed, so duplicate callbacks get an idempotent success instead of a
// second mutation.
type Outcome struct {
	AlreadyCompleted bool
}

// CardCallback carries the gateway redirect/webhook parameters.
type CardCallback struct {
	Status        string
	TxRef         string
	TransactionID string
}

// WalletCallback carries the wallet processor's return parameters plus the
// local ref embedded in the return URL at initiation time.
type WalletCallback struct {
	PaymentID string
	PayerID   string
	Ref       string
}

// ConfirmCardPayment re-verifies the payment with the gateway's own lookup
// endpoint, cross-checks the verified amount/currency/status against the
// stored transaction and, on an exact match, completes the transaction and
// marks the cart paid in one atomic step. The callback's own status field is
// never sufficient proof of payment.
func (s *Service) ConfirmCardPayment(ctx context.Context, cb CardCallback) (Outcome, error) {
	if cb.Status == "" || cb.TxRef == "" || cb.TransactionID == "" {
		return Outcome{}, ErrMissingParams
	}
	if cb.Status != "successful" {
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorFlutterwave, "failed").Inc()
		return Outcome{}, ErrNotSuccessful
	}

	ver, err := s.card.Verify(ctx, cb.TransactionID)
	if err != nil {
		var rejected *flutterwave.RejectedError
		if errors.As(err, &rejected) {
			s.metrics.Reconciled.WithLabelValues(domain.ProcessorFlutterwave, "failed").Inc()
			return Outcome{}, fmt.Errorf("%w: %v", ErrVerifyDeclined, err)
		}
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorFlutterwave, "error").Inc()
		return Outcome{}, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	txn, err := s.txns.GetByRef(ctx, cb.TxRef)
	if err != nil {
		return Outcome{}, err
	}
	if txn.Status == domain.TxCompleted {
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorFlutterwave, "duplicate").Inc()
		return Outcome{AlreadyCompleted: true}, nil
	}

	if ver.Status != "successful" {
		if ver.Status == "failed" {
			if err := s.txns.MarkFailed(ctx, txn.Ref); err != nil {
				s.logger.Printf("reconcile: mark failed ref=%s error=%v", txn.Ref, err)
			}
		}
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorFlutterwave, "mismatch").Inc()
		return Outcome{}, fmt.Errorf("%w: verified status %q", ErrMismatch, ver.Status)
	}
	if !ver.Amount.Equal(txn.Amount) || ver.Currency != txn.Currency {
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorFlutterwave, "mismatch").Inc()
		return Outcome{}, fmt.Errorf("%w: verified %s %s, stored %s %s",
			ErrMismatch, ver.Amount, ver.Currency, txn.Amount, txn.Currency)
	}

	return s.complete(ctx, txn, domain.ProcessorFlutterwave)
}

// ConfirmWalletPayment is the wallet-processor variant. A return without
// payment identifiers is treated as the payer cancelling: the pending
// transaction is recorded cancelled and no cart mutation happens.
func (s *Service) ConfirmWalletPayment(ctx context.Context, cb WalletCallback) (Outcome, error) {
	if cb.Ref == "" {
		return Outcome{}, ErrMissingParams
	}

	txn, err := s.txns.GetByRef(ctx, cb.Ref)
	if err != nil {
		return Outcome{}, err
	}
	if txn.Status == domain.TxCompleted {
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorPayPal, "duplicate").Inc()
		return Outcome{AlreadyCompleted: true}, nil
	}

	if cb.PaymentID == "" || cb.PayerID == "" {
		if err := s.txns.MarkCancelled(ctx, txn.Ref); err != nil {
			s.logger.Printf("reconcile: mark cancelled ref=%s error=%v", txn.Ref, err)
		}
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorPayPal, "failed").Inc()
		return Outcome{}, ErrMissingParams
	}

	ver, err := s.wallet.VerifyOrder(ctx, cb.PaymentID)
	if err != nil {
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorPayPal, "error").Inc()
		return Outcome{}, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	if ver.Status != "APPROVED" && ver.Status != "COMPLETED" {
		if ver.Status == "VOIDED" {
			if err := s.txns.MarkFailed(ctx, txn.Ref); err != nil {
				s.logger.Printf("reconcile: mark failed ref=%s error=%v", txn.Ref, err)
			}
		}
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorPayPal, "mismatch").Inc()
		return Outcome{}, fmt.Errorf("%w: verified status %q", ErrMismatch, ver.Status)
	}
	if !ver.Amount.Equal(txn.Amount) || ver.Currency != txn.Currency {
		s.metrics.Reconciled.WithLabelValues(domain.ProcessorPayPal, "mismatch").Inc()
		return Outcome{}, fmt.Errorf("%w: verified %s %s, stored %s %s",
			ErrMismatch, ver.Amount, ver.Currency, txn.Amount, txn.Currency)
	}

	return s.complete(ctx, txn, domain.ProcessorPayPal)
}

// complete runs the atomic pending→completed transition. The cart is
// attributed to the transaction's initiating user, not whoever delivered
// the callback.
func (s *Service) complete(ctx context.Context, txn *domain.Transaction, processor string) (Outcome, error) {
	err := s.txns.Complete(ctx, txn.Ref, txn.UserID)
	switch {
	case err == nil:
		s.metrics.Reconciled.WithLabelValues(processor, "completed").Inc()
		s.logger.Printf("reconcile: completed ref=%s amount=%s %s", txn.Ref, txn.Amount, txn.Currency)
		return Outcome{}, nil
	case errors.Is(err, txnrepo.ErrAlreadyCompleted):
		// A concurrent callback won the compare-and-set.
		s.metrics.Reconciled.WithLabelValues(processor, "duplicate").Inc()
		return Outcome{AlreadyCompleted: true}, nil
	case errors.Is(err, txnrepo.ErrNotPending):
		s.metrics.Reconciled.WithLabelValues(processor, "failed").Inc()
		return Outcome{}, fmt.Errorf("%w: transaction already finalized", ErrNotSuccessful)
	default:
		s.metrics.Reconciled.WithLabelValues(processor, "error").Inc()
		return Outcome{}, err
	}
}
