// The auditor walks persisted bookings and verifies each one's payment
// intent still exists at the processor with the expected amount. A booking
// persistence failure after a successful intent creation leaves an intent no
// local row references; this tool is the operator's view into that window.
// Read-only: it never mutates bookings or intents.
package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Tertoey/roomBooking/internal/adapters/observability"
	"github.com/Tertoey/roomBooking/internal/adapters/processor"
	"github.com/Tertoey/roomBooking/internal/domain"
	"github.com/Tertoey/roomBooking/internal/shared"
	mysqlrepo "github.com/Tertoey/roomBooking/internal/storage/mysql"
)

const pageSize = 200

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.Workers).Msg("auditor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)

	gateway, err := processor.New(cfg.StripeKey, cfg.StripeRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Stripe gateway")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	var afterID int64
	var audited int
	for {
		page, err := repo.ListBookings(ctx, domain.BookingsQuery{AfterID: afterID, Limit: pageSize})
		if err != nil {
			log.Fatal().Err(err).Msg("list bookings failed")
		}
		if len(page) == 0 {
			break
		}
		afterID = page[len(page)-1].ID
		audited += len(page)

		for _, b := range page {
			b := b

			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}

			wg.Add(1)
			go func(bk domain.Booking) {
				defer wg.Done()
				defer sem.Release(1)

				audit(ctx, gateway, bk)
			}(b)
		}
	}

	wg.Wait()
	log.Info().Int("bookings", audited).Msg("audit completed")
}

func audit(ctx context.Context, gateway domain.PaymentGateway, b domain.Booking) {
	intent, err := gateway.RetrieveIntent(ctx, b.PaymentIntentID)
	if err != nil {
		if errors.Is(err, processor.ErrNotFound) {
			log.Warn().
				Int64("booking", b.ID).
				Str("intent", b.PaymentIntentID).
				Msg("booking references a missing intent")
			return
		}
		log.Error().Int64("booking", b.ID).Err(err).Msg("intent retrieval failed")
		return
	}

	want := domain.PriceQuote{Total: b.TotalPrice}.MinorUnits()
	if intent.Amount != want {
		log.Warn().
			Int64("booking", b.ID).
			Str("intent", intent.ID).
			Int64("intent_amount", intent.Amount).
			Int64("booking_amount", want).
			Msg("intent amount diverges from booking total")
		return
	}
	log.Debug().Int64("booking", b.ID).Str("intent", intent.ID).Msg("booking consistent")
}
