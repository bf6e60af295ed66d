package processor

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Tertoey/roomBooking/internal/domain"
)

// Fake is an in-process PaymentGateway for dev mode and tests. Intents are
// held in memory and never expire.
type Fake struct {
	mu      sync.Mutex
	intents map[string]domain.Intent
}

func NewFake() *Fake {
	return &Fake{intents: make(map[string]domain.Intent)}
}

func (f *Fake) CreateIntent(_ context.Context, amountMinor int64, currency string) (domain.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := "pi_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	in := domain.Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.New().String()[:8],
		Amount:       amountMinor,
		Currency:     currency,
		Status:       "requires_payment_method",
	}
	f.intents[id] = in
	return in, nil
}

func (f *Fake) RetrieveIntent(_ context.Context, id string) (domain.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	in, ok := f.intents[id]
	if !ok {
		return domain.Intent{}, ErrNotFound
	}
	return in, nil
}
