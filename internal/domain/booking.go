package domain

import (
	"math"
	"time"
)

// Identity is the authenticated caller as resolved by the identity provider.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// StayRequest is one booking attempt: a room, a date range and who is asking.
// Dates carry calendar-day granularity only; any time-of-day is ignored.
type StayRequest struct {
	HotelOwnerID      string
	HotelID           int64
	RoomID            int64
	StartDate         time.Time
	EndDate           time.Time
	BreakfastIncluded bool
	Caller            Identity
}

// Room carries the per-night rates the calculator quotes from.
// BreakfastRate is nil when the room has no breakfast option configured.
type Room struct {
	ID            int64
	HotelID       int64
	RoomRate      float64
	BreakfastRate *float64
}

// PriceQuote is the computed total for a stay, in major currency units.
type PriceQuote struct {
	Nights        int
	RoomRate      float64
	BreakfastRate *float64
	Total         float64
}

// MinorUnits converts the total to the processor's minor unit (cents for a
// two-decimal currency). Conversion happens only at this boundary.
func (q PriceQuote) MinorUnits() int64 {
	return int64(math.Round(q.Total * 100))
}

// Intent is the processor-side authorization handle. The service treats it as
// a value object: only the ID is consulted after creation.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// Booking links a stay request to its payment intent and computed price.
// Rows are created exactly once and never mutated by this service.
type Booking struct {
	ID              int64
	UserID          string
	UserName        string
	UserEmail       string
	HotelOwnerID    string
	HotelID         int64
	RoomID          int64
	StartDate       time.Time
	EndDate         time.Time
	BreakfastInc    bool
	TotalPrice      float64
	Currency        string
	PaymentIntentID string
	CreatedAt       time.Time
}

type BookingsQuery struct {
	AfterID int64
	Limit   int
}
