// Package checkout holds the two halves of the payment flow: initiating a
// payment against one of the processors, and reconciling the processor's
// callback against local state (reconcile.go).
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"shopcart-api/internal/domain"
	"shopcart-api/internal/gateway/flutterwave"
	"shopcart-api/internal/gateway/paypal"
	"shopcart-api/internal/metrics"
	txnrepo "shopcart-api/internal/repository/transaction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrCartEmpty rejects checkout before any transaction row is written.
	ErrCartEmpty = errors.New("cart is empty")
)

type cardGateway interface {
	Initiate(ctx context.Context, in flutterwave.InitiateInput) (json.RawMessage, error)
	Verify(ctx context.Context, transactionID string) (*flutterwave.Verification, error)
}

type walletGateway interface {
	CreateOrder(ctx context.Context, in paypal.OrderInput) (*paypal.Order, error)
	VerifyOrder(ctx context.Context, orderID string) (*paypal.Verification, error)
}

type cartRepo interface {
	GetByCode(ctx context.Context, code string, unpaidOnly bool) (*domain.Cart, error)
}

type transactionRepo interface {
	Create(ctx context.Context, in txnrepo.CreateInput) (*domain.Transaction, error)
	GetByRef(ctx context.Context, ref string) (*domain.Transaction, error)
	Complete(ctx context.Context, ref string, ownerID int64) error
	MarkFailed(ctx context.Context, ref string) error
	MarkCancelled(ctx context.Context, ref string) error
}

// Config carries the per-processor currencies, the fixed service tax and the
// base URL used to build redirect/return links.
type Config struct {
	CardCurrency    string
	WalletCurrency  string
	ServiceTax      decimal.Decimal
	FrontendBaseURL string
}

type Service struct {
	carts   cartRepo
	txns    transactionRepo
	card    cardGateway
	wallet  walletGateway
	cfg     Config
	metrics *metrics.Payment
	logger  *log.Logger
}

func New(carts cartRepo, txns transactionRepo, card cardGateway, wallet walletGateway, cfg Config, m *metrics.Payment, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:   carts,
		txns:    txns,
		card:    card,
		wallet:  wallet,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

// InitiateCardPayment creates a pending transaction for the cart total and
// submits a hosted-payment request to the card gateway. The gateway's 200
// response is returned verbatim.
func (s *Service) InitiateCardPayment(ctx context.Context, cartCode string, user domain.User) (json.RawMessage, error) {
	txn, err := s.createPendingTransaction(ctx, cartCode, user, s.cfg.CardCurrency, domain.ProcessorFlutterwave)
	if err != nil {
		return nil, err
	}

	resp, err := s.card.Initiate(ctx, flutterwave.InitiateInput{
		TxRef:       txn.Ref,
		Amount:      txn.Amount,
		Currency:    txn.Currency,
		RedirectURL: s.cfg.FrontendBaseURL + "/payment-status/",
		Customer: flutterwave.Customer{
			Email:       user.Email,
			Name:        user.Username,
			PhoneNumber: user.Phone,
		},
	})
	if err != nil {
		s.metrics.Initiated.WithLabelValues(domain.ProcessorFlutterwave, "error").Inc()
		s.logger.Printf("checkout: card initiate ref=%s error=%v", txn.Ref, err)
		return nil, err
	}

	s.metrics.Initiated.WithLabelValues(domain.ProcessorFlutterwave, "ok").Inc()
	s.logger.Printf("checkout: card initiate ref=%s amount=%s %s", txn.Ref, txn.Amount, txn.Currency)
	return resp, nil
}

// InitiateWalletPayment opens a wallet-processor order for the cart total
// and returns the processor-hosted approval URL. The return and cancel
// links both carry the local transaction ref so the callback can find it.
func (s *Service) InitiateWalletPayment(ctx context.Context, cartCode string, user domain.User) (string, error) {
	txn, err := s.createPendingTransaction(ctx, cartCode, user, s.cfg.WalletCurrency, domain.ProcessorPayPal)
	if err != nil {
		return "", err
	}

	order, err := s.wallet.CreateOrder(ctx, paypal.OrderInput{
		Ref:         txn.Ref,
		Amount:      txn.Amount,
		Currency:    txn.Currency,
		Description: "Payment for cart items",
		ReturnURL:   s.cfg.FrontendBaseURL + "/payment-status?paymentStatus=success&ref=" + txn.Ref,
		CancelURL:   s.cfg.FrontendBaseURL + "/payment-status?paymentStatus=cancel&ref=" + txn.Ref,
	})
	if err != nil {
		s.metrics.Initiated.WithLabelValues(domain.ProcessorPayPal, "error").Inc()
		s.logger.Printf("checkout: wallet initiate ref=%s error=%v", txn.Ref, err)
		return "", err
	}

	s.metrics.Initiated.WithLabelValues(domain.ProcessorPayPal, "ok").Inc()
	s.logger.Printf("checkout: wallet initiate ref=%s order=%s", txn.Ref, order.ID)
	return order.ApprovalURL, nil
}

func (s *Service) createPendingTransaction(ctx context.Context, cartCode string, user domain.User, currency, processor string) (*domain.Transaction, error) {
	cart, err := s.carts.GetByCode(ctx, cartCode, true)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	total := cart.SumTotal().Add(s.cfg.ServiceTax)
	return s.txns.Create(ctx, txnrepo.CreateInput{
		Ref:       uuid.NewString(),
		CartID:    cart.ID,
		UserID:    user.ID,
		Amount:    total,
		Currency:  currency,
		Processor: processor,
	})
}
