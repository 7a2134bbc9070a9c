package flutterwave

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "sk_test", 2*time.Second, nil)
}

func TestInitiateReturnsBodyVerbatim(t *testing.T) {
	const respBody = `{"status":"success","data":{"link":"https://checkout.test/pay"}}`
	var gotAuth string
	var gotPayload map[string]interface{}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(respBody))
	})

	raw, err := c.Initiate(context.Background(), InitiateInput{
		TxRef:       "ref-1",
		Amount:      decimal.RequireFromString("14.00"),
		Currency:    "NGN",
		RedirectURL: "http://localhost:3000/payment-status/",
		Customer:    Customer{Email: "a@b.com", Name: "ann", PhoneNumber: "0800"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != respBody {
		t.Fatalf("expected body returned verbatim, got %s", raw)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPayload["tx_ref"] != "ref-1" || gotPayload["amount"] != "14" || gotPayload["currency"] != "NGN" {
		t.Fatalf("unexpected payload: %v", gotPayload)
	}
}

func TestInitiateRejected(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"Invalid currency"}`))
	})

	_, err := c.Initiate(context.Background(), InitiateInput{TxRef: "ref-1"})
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rejected.StatusCode)
	}
	if string(rejected.Body) != `{"status":"error","message":"Invalid currency"}` {
		t.Fatalf("expected gateway body preserved, got %s", rejected.Body)
	}
}

func TestInitiateServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Initiate(context.Background(), InitiateInput{TxRef: "ref-1"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestVerifyParsesEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/12345/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","data":{"status":"successful","amount":14.00,"currency":"NGN"}}`))
	})

	ver, err := c.Verify(context.Background(), "12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ver.Status != "successful" || ver.Currency != "NGN" {
		t.Fatalf("unexpected verification: %+v", ver)
	}
	if !ver.Amount.Equal(decimal.RequireFromString("14.00")) {
		t.Fatalf("unexpected amount %s", ver.Amount)
	}
}

func TestVerifyEnvelopeFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"No transaction was found for this id"}`))
	})

	_, err := c.Verify(context.Background(), "12345")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
}

func TestVerifyServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Verify(context.Background(), "12345")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
