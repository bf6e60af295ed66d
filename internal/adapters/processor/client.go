// internal/adapters/processor/client.go
package processor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"golang.org/x/time/rate"

	"github.com/Tertoey/roomBooking/internal/adapters/observability"
	"github.com/Tertoey/roomBooking/internal/domain"
)

// Gateway is the Stripe-backed domain.PaymentGateway. Calls are rate limited
// client-side; stripe-go handles transport-level retries itself.
type Gateway struct {
	sc *client.API
	rl *rate.Limiter
}

var ErrNotFound = errors.New("processor: intent not found")

// New builds a Gateway against the live Stripe API.
func New(key string, rps int) (*Gateway, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	sc := &client.API{}
	sc.Init(key, nil)
	return newWithClient(sc, rps), nil
}

// NewWithBackend builds a Gateway against an arbitrary backend URL. Tests
// point this at an httptest server.
func NewWithBackend(key, url string, rps int) *Gateway {
	cfg := &stripe.BackendConfig{URL: stripe.String(url)}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	sc := &client.API{}
	sc.Init(key, backends)
	return newWithClient(sc, rps)
}

func newWithClient(sc *client.API, rps int) *Gateway {
	if rps <= 0 {
		rps = 25
	}
	return &Gateway{sc: sc, rl: rate.NewLimiter(rate.Limit(rps), rps)}
}

// CreateIntent mints a new payment intent. Deliberately no idempotency key:
// every call produces a genuinely new intent, and the booking store's
// uniqueness constraint is what keeps attempts from diverging.
func (g *Gateway) CreateIntent(ctx context.Context, amountMinor int64, currency string) (domain.Intent, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return domain.Intent{}, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	start := time.Now()
	pi, err := g.sc.PaymentIntents.New(params)
	observability.ObserveExternal("stripe", "create_intent", statusOf(err), time.Since(start))
	if err != nil {
		return domain.Intent{}, err
	}
	return toIntent(pi), nil
}

func (g *Gateway) RetrieveIntent(ctx context.Context, id string) (domain.Intent, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return domain.Intent{}, err
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	start := time.Now()
	pi, err := g.sc.PaymentIntents.Get(id, params)
	observability.ObserveExternal("stripe", "retrieve_intent", statusOf(err), time.Since(start))
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return domain.Intent{}, ErrNotFound
		}
		return domain.Intent{}, err
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) domain.Intent {
	return domain.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var se *stripe.Error
	if errors.As(err, &se) && se.HTTPStatusCode != 0 {
		return se.HTTPStatusCode
	}
	return http.StatusInternalServerError
}
