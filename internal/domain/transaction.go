package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses. Pending transitions to exactly one terminal state;
// completed, failed and cancelled never transition again.
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
	TxCancelled = "cancelled"
)

// Payment processors a transaction can be routed through.
const (
	ProcessorFlutterwave = "flutterwave"
	ProcessorPayPal      = "paypal"
)

// Transaction is the sole record of an intent to pay for a cart.
type Transaction struct {
	ID        int64           `json:"id"`
	Ref       string          `json:"ref"`
	CartID    int64           `json:"cartId"`
	UserID    int64           `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Processor string          `json:"processor"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
