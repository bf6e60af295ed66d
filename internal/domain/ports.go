package domain

import "context"

type BookingRepository interface {
	// FindByOwnerAndIntent returns ErrNotFound when no row matches.
	FindByOwnerAndIntent(ctx context.Context, ownerID, intentID string) (Booking, error)
	// Create persists a new booking and returns it with its assigned ID.
	// A second create for the same (user, intent) pair or the same
	// (user, room, dates) stay returns ErrConflict.
	Create(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, q BookingsQuery) ([]Booking, error)
}

type RoomCatalog interface {
	GetRoom(ctx context.Context, hotelID, roomID int64) (Room, error)
}

type PaymentGateway interface {
	// CreateIntent mints a new authorization at the processor. Every call
	// creates a genuinely new intent; no idempotency key is passed.
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (Intent, error)
	RetrieveIntent(ctx context.Context, id string) (Intent, error)
}

type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
