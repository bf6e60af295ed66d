package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/Tertoey/roomBooking/internal/adapters/http_server"
	"github.com/Tertoey/roomBooking/internal/adapters/identity"
	"github.com/Tertoey/roomBooking/internal/adapters/observability"
	"github.com/Tertoey/roomBooking/internal/adapters/processor"
	redisad "github.com/Tertoey/roomBooking/internal/adapters/redis"
	"github.com/Tertoey/roomBooking/internal/app"
	"github.com/Tertoey/roomBooking/internal/domain"
	"github.com/Tertoey/roomBooking/internal/shared"
	"github.com/Tertoey/roomBooking/internal/storage/memory"
	mysqlrepo "github.com/Tertoey/roomBooking/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// stores: MySQL in prod, in-memory in dev
	var repo domain.BookingRepository
	var catalog domain.RoomCatalog
	if cfg.AppEnv == "dev" {
		mem := memory.New()
		mem.SeedRoom(domain.Room{ID: 1, HotelID: 1, RoomRate: 100})
		repo, catalog = mem, mem
		log.Warn().Msg("dev mode: in-memory store")
	} else {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		r := mysqlrepo.New(db)
		repo, catalog = r, r
	}

	// payment gateway: Stripe when a key is configured, else the fake
	var gateway domain.PaymentGateway
	if cfg.StripeKey != "" {
		g, err := processor.New(cfg.StripeKey, cfg.StripeRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Stripe gateway")
		}
		gateway = g
	} else {
		gateway = processor.NewFake()
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	reconcile := app.NewReconcileService(repo, catalog, gateway, cache, cfg.Currency, cfg.CacheTTL)
	bookings := app.NewBookingQueryService(repo)
	idp := identity.NewJWT(cfg.JWTSecret)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Reconcile: reconcile, Bookings: bookings, Identity: idp})

	log.Info().Str("addr", cfg.HTTPAddr).Str("currency", cfg.Currency).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
