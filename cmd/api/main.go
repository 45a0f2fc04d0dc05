package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mujq1695/dev-events/internal/config"
	"github.com/mujq1695/dev-events/internal/db"
	httpx "github.com/mujq1695/dev-events/internal/http"
	"github.com/mujq1695/dev-events/internal/notifications"
	"github.com/mujq1695/dev-events/internal/observability"
	"github.com/mujq1695/dev-events/internal/repo/mongodb"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// a missing connection string must blow up before any request is served
	if cfg.MongoURI == "" {
		log.Error("refusing to start", "err", db.ErrMissingURI)
		os.Exit(1)
	}

	// optional tracing
	if cfg.OtelEnabled {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		shutdownTracer, err := observability.InitTracer(ctx, "dev-events-api", cfg.OtelEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// lazy connector; the first caller dials, indexes are bootstrapped once
	// per successful connect
	conn := db.NewConnector(db.Options{
		URI:          cfg.MongoURI,
		Database:     cfg.MongoDB,
		AfterConnect: mongodb.EnsureIndexes,
	})

	// warm the connection up front; a dead database is logged, not fatal,
	// the connector retries on the next request and readyz stays red
	{
		ctx, cancel := config.WithTimeout(10 * time.Second)
		if _, err := conn.Database(ctx); err != nil {
			log.Error("initial database connect failed", "err", err)
		}
		cancel()
	}

	notifier := notifications.NewProtectedNotifier(
		notifications.New(cfg.Notifier, notifications.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
			FromAddress:     cfg.SESFromAddress,
			FromName:        cfg.SESFromName,
		}),
		notifications.ProtectedNotifierConfig{},
	)

	// set up routers
	router := httpx.NewRouter(cfg, conn, prom, reg, notifier)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if err := conn.Disconnect(ctx); err != nil {
			log.Error("database disconnect failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
