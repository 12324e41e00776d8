package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/saldo/internal/auth"
	"github.com/MrJamesThe3rd/saldo/internal/backend"
	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/config"
	"github.com/MrJamesThe3rd/saldo/internal/events"
	saldoHttp "github.com/MrJamesThe3rd/saldo/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/saldo/internal/http/analytics"
	categorizeHandler "github.com/MrJamesThe3rd/saldo/internal/http/categorize"
	importHandler "github.com/MrJamesThe3rd/saldo/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/saldo/internal/http/transaction"
	"github.com/MrJamesThe3rd/saldo/internal/importer"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	applog "github.com/MrJamesThe3rd/saldo/internal/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(true); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := applog.New(cfg.Logger())
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg.Backend(), applog.Component(logger, applog.ComponentBackend))
	if err != nil {
		return fmt.Errorf("opening backend: %w", err)
	}
	defer store.Cleanup()

	opts := []ledger.Option{ledger.WithPersistTimeout(cfg.Ledger.PersistTimeout)}

	if cfg.AMQP.URL != "" {
		pub, err := events.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("failed to connect to AMQP, continuing without events", "error", err)
		} else {
			defer pub.Close()

			opts = append(opts, ledger.WithObserver(pub))
		}
	}

	registry := ledger.NewRegistry(
		store.Ledger,
		ledger.RegistryConfig{MaxLedgers: cfg.Ledger.CacheSize, IdleTTL: cfg.Ledger.CacheTTL},
		applog.Component(logger, applog.ComponentRegistry),
		opts...,
	)

	if cfg.Ledger.CacheTTL > 0 {
		go registry.Run(ctx, cfg.Ledger.CacheTTL/2)
	}

	var (
		categorizeService = categorize.NewService(store.Rules)
		importService     = importer.NewService(categorizeService)
	)

	var (
		transactionH = txHandler.NewHandler(registry)
		analyticsH   = analyticsHandler.NewHandler(registry, time.Now)
		importH      = importHandler.NewHandler(importService, registry)
		categorizeH  = categorizeHandler.NewHandler(categorizeService)
	)

	router := saldoHttp.New(saldoHttp.Config{
		Logger:         logger,
		Verifier:       auth.NewVerifier(cfg.Auth.Secret),
		AllowedOrigins: cfg.Server.CORSOrigins,
	}, transactionH, analyticsH, importH, categorizeH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, applog.FieldBackend, cfg.Data.Backend)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
