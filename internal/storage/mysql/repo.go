package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/Tertoey/roomBooking/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

const dateLayout = "2006-01-02"

// Create persists a booking. The schema's unique keys on
// (user_id, payment_intent_id) and (user_id, room_id, start_date, end_date)
// are the authority for the duplicate-booking invariant; a duplicate-key
// rejection (MySQL 1062) is mapped to domain.ErrConflict.
func (r *Repo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	res, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.UserID,
		b.UserName,
		b.UserEmail,
		b.HotelOwnerID,
		b.HotelID,
		b.RoomID,
		b.StartDate.Format(dateLayout),
		b.EndDate.Format(dateLayout),
		b.BreakfastInc,
		b.TotalPrice,
		b.Currency,
		b.PaymentIntentID,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return domain.Booking{}, domain.ErrConflict
		}
		return domain.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}
	b.ID = id
	return b, nil
}

func (r *Repo) FindByOwnerAndIntent(ctx context.Context, ownerID, intentID string) (domain.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx, findByOwnerAndIntentSQL, ownerID, intentID))
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
}

func (r *Repo) ListBookings(ctx context.Context, q domain.BookingsQuery) ([]domain.Booking, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, q.AfterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoom(ctx context.Context, hotelID, roomID int64) (domain.Room, error) {
	row := r.db.QueryRowContext(ctx, getRoomSQL, hotelID, roomID)

	var rm domain.Room
	var breakfast sql.NullFloat64
	if err := row.Scan(&rm.ID, &rm.HotelID, &rm.RoomRate, &breakfast); err != nil {
		if err == sql.ErrNoRows {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, err
	}
	if breakfast.Valid {
		f := breakfast.Float64
		rm.BreakfastRate = &f
	}
	return rm, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var userName, userEmail sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&userName,
		&userEmail,
		&b.HotelOwnerID,
		&b.HotelID,
		&b.RoomID,
		&b.StartDate,
		&b.EndDate,
		&b.BreakfastInc,
		&b.TotalPrice,
		&b.Currency,
		&b.PaymentIntentID,
		&createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	if userName.Valid {
		b.UserName = userName.String
	}
	if userEmail.Valid {
		b.UserEmail = userEmail.String
	}
	if createdAt.Valid {
		b.CreatedAt = createdAt.Time
	}
	return b, nil
}
