// Package flutterwave talks to the card/mobile-money gateway. It does
// protocol marshaling only; business validation of verified payments is the
// checkout service's job.
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnavailable wraps network and server-side transport failures, as
// opposed to the gateway rejecting a well-delivered request.
var ErrUnavailable = errors.New("payment gateway unavailable")

// RejectedError carries the gateway's own error payload for a request it
// received and refused.
type RejectedError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment gateway rejected request: status %d", e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	logger     *log.Logger
}

// New builds a gateway client with a uniform timeout applied to every call.
func New(baseURL, secretKey string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		secretKey:  secretKey,
		logger:     logger,
	}
}

type Customer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber"`
}

type InitiateInput struct {
	TxRef       string
	Amount      decimal.Decimal
	Currency    string
	RedirectURL string
	Customer    Customer
}

// Verification is the gateway's own view of a payment, fetched from its
// verify endpoint rather than taken from callback parameters.
type Verification struct {
	Status   string
	Amount   decimal.Decimal
	Currency string
}

// Initiate submits a hosted-payment request and returns the gateway's 200
// response verbatim so the frontend can follow the embedded payment link.
func (c *Client) Initiate(ctx context.Context, in InitiateInput) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"tx_ref":       in.TxRef,
		"amount":       in.Amount.String(),
		"currency":     in.Currency,
		"redirect_url": in.RedirectURL,
		"customer":     in.Customer,
		"customizations": map[string]string{
			"title": "Shopping Payment",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("flutterwave: initiate tx_ref=%s transport error=%v", in.TxRef, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return json.RawMessage(raw), nil
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Printf("flutterwave: initiate tx_ref=%s status=%d", in.TxRef, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: json.RawMessage(raw)}
	}
}

// Verify looks up a payment by the gateway-issued transaction id. It returns
// the verified status, amount and currency; interpreting them is left to the
// caller.
func (c *Client) Verify(ctx context.Context, transactionID string) (*Verification, error) {
	url := fmt.Sprintf("%s/transactions/%s/verify", c.baseURL, transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("flutterwave: verify id=%s transport error=%v", transactionID, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: json.RawMessage(raw)}
	}

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			Status   string      `json:"status"`
			Amount   json.Number `json:"amount"`
			Currency string      `json:"currency"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed verify response: %v", ErrUnavailable, err)
	}
	if envelope.Status != "success" {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: json.RawMessage(raw)}
	}

	amount, err := decimal.NewFromString(envelope.Data.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("%w: malformed verified amount %q", ErrUnavailable, envelope.Data.Amount)
	}
	return &Verification{
		Status:   envelope.Data.Status,
		Amount:   amount,
		Currency: envelope.Data.Currency,
	}, nil
}
