package app

import (
	"context"

	"github.com/Tertoey/roomBooking/internal/domain"
)

type BookingQueryService struct {
	repo domain.BookingRepository
}

func NewBookingQueryService(r domain.BookingRepository) *BookingQueryService {
	return &BookingQueryService{repo: r}
}

// GetBooking fetches a booking owned by the caller. Rows belonging to other
// users are reported as not found rather than forbidden.
func (s *BookingQueryService) GetBooking(ctx context.Context, caller domain.Identity, id int64) (domain.Booking, error) {
	if caller.ID == "" {
		return domain.Booking{}, domain.ErrUnauthorized
	}
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.UserID != caller.ID {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}
