package paypal

import (
	"testing"

	sdk "github.com/plutov/paypal/v4"
)

func TestApprovalLink(t *testing.T) {
	links := []sdk.Link{
		{Rel: "self", Href: "https://api.paypal.test/v2/checkout/orders/ORD-1"},
		{Rel: "approve", Href: "https://paypal.test/checkoutnow?token=ORD-1"},
		{Rel: "capture", Href: "https://api.paypal.test/v2/checkout/orders/ORD-1/capture"},
	}
	if got := approvalLink(links); got != "https://paypal.test/checkoutnow?token=ORD-1" {
		t.Fatalf("unexpected approval link %q", got)
	}
}

func TestApprovalLinkLegacyRel(t *testing.T) {
	links := []sdk.Link{
		{Rel: "approval_url", Href: "https://paypal.test/webscr?cmd=_express-checkout"},
	}
	if got := approvalLink(links); got != "https://paypal.test/webscr?cmd=_express-checkout" {
		t.Fatalf("unexpected approval link %q", got)
	}
}

func TestApprovalLinkMissing(t *testing.T) {
	links := []sdk.Link{
		{Rel: "self", Href: "https://api.paypal.test/v2/checkout/orders/ORD-1"},
	}
	if got := approvalLink(links); got != "" {
		t.Fatalf("expected empty link, got %q", got)
	}
}
