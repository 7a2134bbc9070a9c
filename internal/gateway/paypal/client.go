// Package paypal wraps the wallet processor's REST SDK behind the same
// initiate/verify shape the card gateway exposes.
package paypal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	sdk "github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
)

// ErrNoApprovalLink is returned when a created order carries no link the
// payer can be redirected to.
var ErrNoApprovalLink = errors.New("paypal order has no approval link")

type Client struct {
	sdk    *sdk.Client
	logger *log.Logger
}

// New constructs an authenticated client. The SDK session is established
// here, once, and injected wherever it is needed; nothing is configured at
// package level.
func New(ctx context.Context, clientID, secret, mode string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	base := sdk.APIBaseSandBox
	if mode == "live" {
		base = sdk.APIBaseLive
	}
	c, err := sdk.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	if _, err := c.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal auth: %w", err)
	}
	return &Client{sdk: c, logger: logger}, nil
}

type OrderInput struct {
	Ref         string
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

type Order struct {
	ID          string
	ApprovalURL string
}

// Verification mirrors the card gateway's verified-payment shape.
type Verification struct {
	Status   string
	Amount   decimal.Decimal
	Currency string
}

// CreateOrder opens a CAPTURE order for the cart total and returns the
// processor-hosted approval link scanned from the returned link relations.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (*Order, error) {
	units := []sdk.PurchaseUnitRequest{{
		ReferenceID: in.Ref,
		Description: in.Description,
		Amount: &sdk.PurchaseUnitAmount{
			Currency: in.Currency,
			Value:    in.Amount.StringFixed(2),
		},
	}}
	appCtx := &sdk.ApplicationContext{
		ReturnURL: in.ReturnURL,
		CancelURL: in.CancelURL,
	}

	order, err := c.sdk.CreateOrder(ctx, sdk.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		c.logger.Printf("paypal: create order ref=%s error=%v", in.Ref, err)
		return nil, err
	}

	approval := approvalLink(order.Links)
	if approval == "" {
		return nil, ErrNoApprovalLink
	}
	return &Order{ID: order.ID, ApprovalURL: approval}, nil
}

// VerifyOrder fetches the order from the processor and reports its status,
// amount and currency. The lookup is read-only on the processor side.
func (c *Client) VerifyOrder(ctx context.Context, orderID string) (*Verification, error) {
	order, err := c.sdk.GetOrder(ctx, orderID)
	if err != nil {
		c.logger.Printf("paypal: get order id=%s error=%v", orderID, err)
		return nil, err
	}
	if len(order.PurchaseUnits) == 0 || order.PurchaseUnits[0].Amount == nil {
		return nil, fmt.Errorf("paypal order %s has no purchase unit amount", orderID)
	}
	unit := order.PurchaseUnits[0]
	amount, err := decimal.NewFromString(unit.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("paypal order %s: malformed amount %q", orderID, unit.Amount.Value)
	}
	return &Verification{
		Status:   order.Status,
		Amount:   amount,
		Currency: unit.Amount.Currency,
	}, nil
}

func approvalLink(links []sdk.Link) string {
	for _, link := range links {
		if link.Rel == "approve" || link.Rel == "approval_url" {
			return link.Href
		}
	}
	return ""
}
