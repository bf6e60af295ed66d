package processor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tertoey/roomBooking/internal/adapters/processor"
)

func stripeStub(t *testing.T, creates *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
			atomic.AddInt32(creates, 1)
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(400)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":            "pi_test_1",
				"client_secret": "pi_test_1_secret_abc",
				"amount":        30000,
				"currency":      r.Form.Get("currency"),
				"status":        "requires_payment_method",
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/payment_intents/pi_test_1":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":            "pi_test_1",
				"client_secret": "pi_test_1_secret_abc",
				"amount":        30000,
				"currency":      "usd",
				"status":        "requires_payment_method",
			})
		default:
			w.WriteHeader(404)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "invalid_request_error", "message": "no such payment_intent"},
			})
		}
	}))
}

func TestGateway_CreateAndRetrieve(t *testing.T) {
	var creates int32
	ts := stripeStub(t, &creates)
	defer ts.Close()

	g := processor.NewWithBackend("sk_test_x", ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in, err := g.CreateIntent(ctx, 30000, "usd")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if in.ID != "pi_test_1" || in.ClientSecret == "" || in.Amount != 30000 || in.Currency != "usd" {
		t.Fatalf("unexpected intent: %+v", in)
	}
	if atomic.LoadInt32(&creates) != 1 {
		t.Fatalf("expected one create call, got %d", creates)
	}

	got, err := g.RetrieveIntent(ctx, "pi_test_1")
	if err != nil {
		t.Fatalf("RetrieveIntent: %v", err)
	}
	if got.ID != in.ID || got.Amount != in.Amount {
		t.Fatalf("retrieve mismatch: %+v vs %+v", got, in)
	}
}

func TestGateway_RetrieveUnknownIntent(t *testing.T) {
	var creates int32
	ts := stripeStub(t, &creates)
	defer ts.Close()

	g := processor.NewWithBackend("sk_test_x", ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := g.RetrieveIntent(ctx, "pi_missing"); err == nil {
		t.Fatalf("expected error for unknown intent")
	}
}

func TestGateway_RequiresKey(t *testing.T) {
	if _, err := processor.New("", 10); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestFake_MintsDistinctIntents(t *testing.T) {
	f := processor.NewFake()
	ctx := context.Background()

	a, err := f.CreateIntent(ctx, 100, "usd")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	b, err := f.CreateIntent(ctx, 100, "usd")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("intent ids must be distinct")
	}

	got, err := f.RetrieveIntent(ctx, a.ID)
	if err != nil || got.ID != a.ID {
		t.Fatalf("retrieve: %+v err=%v", got, err)
	}
	if _, err := f.RetrieveIntent(ctx, "pi_nope"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}
