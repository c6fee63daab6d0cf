package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"chargepay/internal/checkout"
	"chargepay/internal/config"
	"chargepay/internal/gateway"
	httpx "chargepay/internal/http"
	"chargepay/internal/status"
	"chargepay/internal/store/postgres"
	"chargepay/internal/wallet"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := gateway.NewClient(cfg.Gateway.BaseURL, gateway.BasicAuth(cfg.Gateway.APIKeyID, cfg.Gateway.APIKeySecret))

	// Persistence and cache are optional; the payment flow works without
	// either.
	var repo *postgres.Repo
	if cfg.DB.DSN != "" {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		repo = postgres.NewRepo(pool)
	}

	var cache *status.SnapshotCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		cache = status.NewSnapshotCache(rdb, 24*time.Hour)
	}

	var sinks []status.Sink
	if repo != nil {
		sinks = append(sinks, repo)
	}
	if cache != nil {
		sinks = append(sinks, cache)
	}
	registry := status.NewRegistry(ctx, gw, cfg.Poller.Interval, sinks...)
	defer registry.StopAll()

	// The native payment sheet lives on the device; API callers submit
	// pre-acquired tokens, so the default provider reports unavailable.
	var recorder checkout.Recorder
	if repo != nil {
		recorder = repo
	}
	orch := checkout.New(gw, wallet.Unsupported{}, recorder, checkout.Options{
		MerchantIdentifier: cfg.Merchant.MerchantIdentifier,
		CountryCode:        cfg.Merchant.CountryCode,
		Currency:           cfg.Merchant.Currency,
		CardRedirectURL:    cfg.Merchant.CardRedirectURL,
	})

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:       cfg,
		Orchestrator: orch,
		Registry:     registry,
		Cache:        cache,
		Fetcher:      gw,
		Repo:         repo,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("chargepay API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
