// main is the entry point of the contacts web application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus env overrides)
//  2. Build the logger (stdout + error log file)
//  3. Open the record store named by database_url
//  4. Build the router and its dependencies
//  5. Serve until SIGINT/SIGTERM, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/contacts --config=config/local.yaml
//
// or
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/contacts
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/aanand-mishra/contacts/internal/config"
	"github.com/aanand-mishra/contacts/internal/http/middleware"
	"github.com/aanand-mishra/contacts/internal/http/router"
	"github.com/aanand-mishra/contacts/internal/logger"
	"github.com/aanand-mishra/contacts/internal/session"
	"github.com/aanand-mishra/contacts/internal/storage/backend"
	"github.com/aanand-mishra/contacts/internal/view"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	cfg := config.MustLoad()

	log, closeLog, err := logger.New(cfg.Env, cfg.Log.ErrorFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("contacts stopped with error", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting contacts",
		zap.String("env", cfg.Env),
		zap.String("version", Version),
	)

	ctx := context.Background()

	store, kind, err := backend.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close storage", zap.Error(err))
		}
	}()
	log.Info("storage initialised", zap.String("backend", string(kind)))

	views, err := view.New()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := router.New(router.Options{
		Logger: log,
		Store:  store,
		Views:  views,
		Flashes: session.New(session.Options{
			Secret:          cfg.Session.Secret,
			SecureCookie:    cfg.Session.SecureCookie,
			LifetimeSeconds: cfg.Session.LifetimeSeconds,
		}),
		Registry:    reg,
		CSRFEnabled: cfg.Session.CSRFEnabled,
		CSRF: middleware.CSRFOptions{
			Secret:          cfg.Session.Secret,
			SecureCookie:    cfg.Session.SecureCookie,
			LifetimeSeconds: cfg.Session.LifetimeSeconds,
		},
	})
	if err != nil {
		return err
	}
	if !cfg.Session.CSRFEnabled {
		log.Warn("CSRF protection is disabled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPServer.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
		ErrorLog:          zap.NewStdLog(log),
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-stop:
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
