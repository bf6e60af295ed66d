// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Tertoey/roomBooking/internal/app"
	"github.com/Tertoey/roomBooking/internal/domain"
)

type Handlers struct {
	Reconcile *app.ReconcileService
	Bookings  *app.BookingQueryService
	Identity  domain.IdentityProvider
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		r.Use(Auth(h.Identity))
		r.Post("/v1/payment-intents", h.createPaymentIntent)
		r.Get("/v1/bookings/{id}", h.getBooking)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- POST /v1/payment-intents ----

type bookingPayload struct {
	HotelOwnerID     string  `json:"hotelOwnerId"`
	HotelID          int64   `json:"hotelId"`
	RoomID           int64   `json:"roomId"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	BreakfastInclude bool   `json:"breakFastInclude"`
	// Client-computed hint kept for wire compatibility; the server always
	// quotes from catalog rates.
	TotalPrice float64 `json:"totalPrice"`
}

type createIntentRequest struct {
	Booking         bookingPayload `json:"booking"`
	PaymentIntentID string         `json:"payment_intent_id"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

const dateLayout = "2006-01-02"

func (h *Handlers) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no caller identity")
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	start, err := time.Parse(dateLayout, req.Booking.StartDate)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid startDate", "expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.Booking.EndDate)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid endDate", "expected YYYY-MM-DD")
		return
	}

	stay := domain.StayRequest{
		HotelOwnerID:      req.Booking.HotelOwnerID,
		HotelID:           req.Booking.HotelID,
		RoomID:            req.Booking.RoomID,
		StartDate:         start,
		EndDate:           end,
		BreakfastIncluded: req.Booking.BreakfastInclude,
		Caller:            caller,
	}

	intent, err := h.Reconcile.Reconcile(r.Context(), stay, req.PaymentIntentID)
	if err != nil {
		writeReconcileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
		Status:       intent.Status,
	})
}

func writeReconcileError(w http.ResponseWriter, err error) {
	var invalid *domain.InvalidRequestError
	var store *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.As(err, &invalid):
		writeProblem(w, http.StatusBadRequest, "Invalid request", invalid.Error())
	case errors.As(err, &store) && store.Conflict:
		writeProblem(w, http.StatusConflict, "Conflict", "a booking for this stay already exists")
	default:
		// processor/store failures: no partial success is reported
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// ---- GET /v1/bookings/{id} ----

type bookingResponse struct {
	ID              int64   `json:"id"`
	HotelID         int64   `json:"hotelId"`
	RoomID          int64   `json:"roomId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	BreakfastInc    bool    `json:"breakFastInclude"`
	TotalPrice      float64 `json:"totalPrice"`
	Currency        string  `json:"currency"`
	PaymentIntentID string  `json:"paymentIntentId"`
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	b, err := h.Bookings.GetBooking(r.Context(), caller, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse{
		ID:              b.ID,
		HotelID:         b.HotelID,
		RoomID:          b.RoomID,
		StartDate:       b.StartDate.Format(dateLayout),
		EndDate:         b.EndDate.Format(dateLayout),
		BreakfastInc:    b.BreakfastInc,
		TotalPrice:      b.TotalPrice,
		Currency:        b.Currency,
		PaymentIntentID: b.PaymentIntentID,
	})
}
