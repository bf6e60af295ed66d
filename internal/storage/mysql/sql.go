package mysql

const insertBookingSQL = `
INSERT INTO bookings
  (user_id, user_name, user_email, hotel_owner_id, hotel_id, room_id,
   start_date, end_date, breakfast_included, total_price, currency, payment_intent_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const bookingColumns = `
  id, user_id, user_name, user_email, hotel_owner_id, hotel_id, room_id,
  start_date, end_date, breakfast_included, total_price, currency,
  payment_intent_id, created_at`

const findByOwnerAndIntentSQL = `
SELECT` + bookingColumns + `
FROM bookings
WHERE user_id = ? AND payment_intent_id = ?
`

const getBookingSQL = `
SELECT` + bookingColumns + `
FROM bookings
WHERE id = ?
`

// Keyset pagination on id; aligns with the primary key.
const listBookingsSQL = `
SELECT` + bookingColumns + `
FROM bookings
WHERE id > ?
ORDER BY id
LIMIT ?
`

const getRoomSQL = `
SELECT id, hotel_id, room_price, breakfast_price
FROM rooms
WHERE hotel_id = ? AND id = ?
`
