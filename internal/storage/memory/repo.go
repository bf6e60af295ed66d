// Package memory is an in-process BookingRepository and RoomCatalog used by
// tests and by dev mode when no MySQL DSN is configured. It enforces the same
// uniqueness constraints as the MySQL schema.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Tertoey/roomBooking/internal/domain"
)

type Repo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]domain.Booking
	byIntent map[string]int64 // "user\x00intent" -> booking id
	byStay   map[string]int64 // "user\x00room\x00start\x00end" -> booking id
	rooms    map[string]domain.Room
}

func New() *Repo {
	return &Repo{
		nextID:   1,
		bookings: make(map[int64]domain.Booking),
		byIntent: make(map[string]int64),
		byStay:   make(map[string]int64),
		rooms:    make(map[string]domain.Room),
	}
}

func intentKey(userID, intentID string) string { return userID + "\x00" + intentID }

func stayKey(b domain.Booking) string {
	return fmt.Sprintf("%s\x00%d\x00%s\x00%s",
		b.UserID, b.RoomID, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"))
}

func (r *Repo) Create(_ context.Context, b domain.Booking) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ik, sk := intentKey(b.UserID, b.PaymentIntentID), stayKey(b)
	if _, dup := r.byIntent[ik]; dup {
		return domain.Booking{}, domain.ErrConflict
	}
	if _, dup := r.byStay[sk]; dup {
		return domain.Booking{}, domain.ErrConflict
	}

	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = time.Now().UTC()
	r.bookings[b.ID] = b
	r.byIntent[ik] = b.ID
	r.byStay[sk] = b.ID
	return b, nil
}

func (r *Repo) FindByOwnerAndIntent(_ context.Context, ownerID, intentID string) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byIntent[intentKey(ownerID, intentID)]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return r.bookings[id], nil
}

func (r *Repo) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (r *Repo) ListBookings(_ context.Context, q domain.BookingsQuery) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Booking
	// ids are assigned sequentially, so an ordered scan is a keyset page
	for id := q.AfterID + 1; id < r.nextID && len(out) < limit; id++ {
		if b, ok := r.bookings[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// SeedRoom registers a room so the catalog can quote it.
func (r *Repo) SeedRoom(room domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[fmt.Sprintf("%d\x00%d", room.HotelID, room.ID)] = room
}

func (r *Repo) GetRoom(_ context.Context, hotelID, roomID int64) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[fmt.Sprintf("%d\x00%d", hotelID, roomID)]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return room, nil
}
