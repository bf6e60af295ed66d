package app

import (
	"time"

	"github.com/Tertoey/roomBooking/internal/domain"
)

// Quote computes the total for a stay in major currency units.
// Nights is the calendar-day difference between the two dates; time-of-day is
// dropped before the subtraction. Deterministic, no side effects.
//
// When breakfast is requested but the room has no breakfast rate configured,
// breakfast is silently excluded from the total.
func Quote(start, end time.Time, roomRate float64, breakfastRate *float64, breakfastIncluded bool) (domain.PriceQuote, error) {
	nights := calendarNights(start, end)
	if nights <= 0 {
		return domain.PriceQuote{}, domain.ErrInvalidRange
	}

	total := float64(nights) * roomRate
	q := domain.PriceQuote{Nights: nights, RoomRate: roomRate, Total: total}

	if breakfastIncluded && breakfastRate != nil {
		q.BreakfastRate = breakfastRate
		q.Total += float64(nights) * (*breakfastRate)
	}
	return q, nil
}

func calendarNights(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
