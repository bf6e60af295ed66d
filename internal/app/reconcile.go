package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tertoey/roomBooking/internal/domain"
)

// ReconcileService decides, per booking attempt, between reusing an existing
// payment intent and minting a new one. It is stateless; any number of
// instances may run concurrently. The booking store's uniqueness constraints
// are the sole guard against concurrent duplicate creates.
type ReconcileService struct {
	repo     domain.BookingRepository
	catalog  domain.RoomCatalog
	gateway  domain.PaymentGateway
	cache    domain.Cache
	currency string
	cacheTTL time.Duration
}

func NewReconcileService(r domain.BookingRepository, cat domain.RoomCatalog, g domain.PaymentGateway, c domain.Cache, currency string, ttl time.Duration) *ReconcileService {
	return &ReconcileService{repo: r, catalog: cat, gateway: g, cache: c, currency: currency, cacheTTL: ttl}
}

// Reconcile returns the payment intent for a stay request.
//
// Reuse branch: when intentID is supplied AND a booking already exists for
// (caller, intentID), the stored intent is re-fetched from the processor and
// returned unchanged. No new intent, no new row, no pricing call.
//
// Create branch: otherwise the stay is quoted from catalog rates, a new
// intent is created for the quoted total, and a booking row is persisted
// carrying the new intent id. Intent creation happens-before persistence; a
// persistence failure after a successful create leaves an orphaned intent at
// the processor, reported via StoreError.OrphanIntentID.
func (s *ReconcileService) Reconcile(ctx context.Context, req domain.StayRequest, intentID string) (domain.Intent, error) {
	if req.Caller.ID == "" {
		return domain.Intent{}, domain.ErrUnauthorized
	}
	if err := validateStay(req); err != nil {
		return domain.Intent{}, err
	}

	if intentID != "" {
		existing, err := s.repo.FindByOwnerAndIntent(ctx, req.Caller.ID, intentID)
		switch {
		case err == nil:
			return s.reuse(ctx, existing)
		case errors.Is(err, domain.ErrNotFound):
			// fall through to the create branch
		default:
			return domain.Intent{}, &domain.StoreError{Err: fmt.Errorf("lookup intent %s: %w", intentID, err)}
		}
	}

	return s.create(ctx, req)
}

func (s *ReconcileService) reuse(ctx context.Context, b domain.Booking) (domain.Intent, error) {
	intent, err := s.gateway.RetrieveIntent(ctx, b.PaymentIntentID)
	if err != nil {
		return domain.Intent{}, &domain.ProcessorError{Op: "retrieve", Err: err}
	}
	log.Debug().
		Str("user", b.UserID).
		Str("intent", b.PaymentIntentID).
		Int64("booking", b.ID).
		Msg("reusing existing payment intent")
	return intent, nil
}

func (s *ReconcileService) create(ctx context.Context, req domain.StayRequest) (domain.Intent, error) {
	room, err := s.lookupRoom(ctx, req.HotelID, req.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Intent{}, &domain.InvalidRequestError{Field: "roomId", Reason: "unknown room"}
		}
		return domain.Intent{}, &domain.StoreError{Err: fmt.Errorf("room %d/%d: %w", req.HotelID, req.RoomID, err)}
	}

	quote, err := Quote(req.StartDate, req.EndDate, room.RoomRate, room.BreakfastRate, req.BreakfastIncluded)
	if err != nil {
		return domain.Intent{}, &domain.InvalidRequestError{Field: "dates", Reason: err.Error()}
	}

	intent, err := s.gateway.CreateIntent(ctx, quote.MinorUnits(), s.currency)
	if err != nil {
		return domain.Intent{}, &domain.ProcessorError{Op: "create", Err: err}
	}

	b := domain.Booking{
		UserID:          req.Caller.ID,
		UserName:        req.Caller.Name,
		UserEmail:       req.Caller.Email,
		HotelOwnerID:    req.HotelOwnerID,
		HotelID:         req.HotelID,
		RoomID:          req.RoomID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		BreakfastInc:    req.BreakfastIncluded,
		TotalPrice:      quote.Total,
		Currency:        s.currency,
		PaymentIntentID: intent.ID,
	}
	if _, err := s.repo.Create(ctx, b); err != nil {
		// The intent already exists at the processor; surface its id so an
		// operator (or cmd/auditor) can reconcile it.
		log.Warn().
			Str("user", req.Caller.ID).
			Str("intent", intent.ID).
			Err(err).
			Msg("booking persistence failed after intent creation")
		return domain.Intent{}, &domain.StoreError{
			Conflict:       errors.Is(err, domain.ErrConflict),
			OrphanIntentID: intent.ID,
			Err:            err,
		}
	}

	log.Info().
		Str("user", req.Caller.ID).
		Str("intent", intent.ID).
		Int("nights", quote.Nights).
		Float64("total", quote.Total).
		Msg("booking created")
	return intent, nil
}

// lookupRoom reads through the cache; rates change rarely and the TTL bounds
// staleness.
func (s *ReconcileService) lookupRoom(ctx context.Context, hotelID, roomID int64) (domain.Room, error) {
	key := fmt.Sprintf("room:%d:%d", hotelID, roomID)
	var room domain.Room
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &room); ok {
			return room, nil
		}
	}
	room, err := s.catalog.GetRoom(ctx, hotelID, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, room, int(s.cacheTTL.Seconds()))
	}
	return room, nil
}

func validateStay(req domain.StayRequest) error {
	if req.HotelID <= 0 {
		return &domain.InvalidRequestError{Field: "hotelId", Reason: "required"}
	}
	if req.RoomID <= 0 {
		return &domain.InvalidRequestError{Field: "roomId", Reason: "required"}
	}
	if req.HotelOwnerID == "" {
		return &domain.InvalidRequestError{Field: "hotelOwnerId", Reason: "required"}
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return &domain.InvalidRequestError{Field: "dates", Reason: "required"}
	}
	if !req.EndDate.After(req.StartDate) {
		return &domain.InvalidRequestError{Field: "dates", Reason: domain.ErrInvalidRange.Error()}
	}
	return nil
}
