package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "makazi/internal/adapters/http_server"
	"makazi/internal/adapters/marketapi"
	"makazi/internal/adapters/observability"
	"makazi/internal/adapters/redisstore"
	"makazi/internal/app"
	"makazi/internal/app/paywatch"
	"makazi/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := redisstore.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)
	if err := store.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	log.Info().Msg("redis connection ok")

	api := marketapi.New(cfg.APIBase, cfg.APITimeout, cfg.APIRateRPS)

	bookings := app.NewBookingService(api, log.Logger)
	watcher := paywatch.New(api, api, nil, cfg.PollInterval, nil, log.Logger)

	h := &server.Handlers{
		Sessions: app.NewSessionService(api, store, log.Logger),
		Catalog:  app.NewCatalogService(api, store, cfg.CacheTTL, log.Logger),
		Bookings: bookings,
		Payments: app.NewPaymentService(api, watcher, cfg.PaymentMinimums, log.Logger),
		Admin:    api,
		Store:    store,
	}

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("gateway listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Stop payment polling last so in-flight watches get a final pass; any
	// staged bookings still pending are logged as lost inside Close.
	watcher.Close()
	log.Info().Msg("gateway stopped")
}
