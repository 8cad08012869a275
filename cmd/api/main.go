// Package main is the entry point for the Volta API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/voltatrips/volta/backend/internal/config"
	"github.com/voltatrips/volta/backend/internal/handler"
	"github.com/voltatrips/volta/backend/internal/ident"
	"github.com/voltatrips/volta/backend/internal/middleware"
	"github.com/voltatrips/volta/backend/internal/planner"
	"github.com/voltatrips/volta/backend/internal/repo"
	"github.com/voltatrips/volta/backend/internal/service"
	"github.com/voltatrips/volta/backend/internal/session"
	"github.com/voltatrips/volta/backend/migrations"
	"github.com/voltatrips/volta/backend/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Missing SECRET_KEY or DATABASE_URL is fatal.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Error tracking ---------------------------------------------------
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.AutoMigrate {
		// goose speaks database/sql; OpenDBFromPool shares the pgx pool.
		db := stdlib.OpenDBFromPool(pool)
		results, err := migrations.Up(context.Background(), db)
		_ = db.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", len(results))
	}

	// --- Sessions ---------------------------------------------------------
	store, err := session.Open(session.Config{
		Secret:   cfg.SecretKey,
		RedisURL: cfg.SessionStoreURL,
		MaxAge:   int(cfg.SessionMaxAge / time.Second),
		Secure:   cfg.SessionSecure,
	})
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.Ping(context.Background()); err != nil {
		slog.Error("failed to reach session store", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	tx := repo.NewTransactor(pool)
	ids := ident.UUIDGenerator{}

	planPolicy := service.PlanReadsOwnerOnly
	if cfg.PublicPlanReads {
		planPolicy = service.PlanReadsPublic
	}

	api := handler.NewServer(handler.Deps{
		Auth:        service.NewAuthService(tx, ids, service.NewBcryptHasher()),
		Trips:       service.NewTripService(tx, ids),
		Plans:       service.NewPlanService(tx, ids, planPolicy),
		Generator:   planner.NewClient(cfg.PlannerAPIURL, cfg.PlannerAPIKey, cfg.PlannerTimeout),
		Sessions:    store,
		SessionName: cfg.SessionName,
		Checks: map[string]handler.Pinger{
			"postgres": pool,
			"sessions": store,
		},
		OpenAPI: spec.OpenAPI,
	}, handler.Options{
		RegisterStartsSession: cfg.RegisterStartsSession,
		PublicPlanReads:       cfg.PublicPlanReads,
	})

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → Sentry →
	// CORS → body limit. Sentry re-panics so Recoverer still answers 500.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if sentryEnabled {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for the planner call on /get_plan.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.PlannerTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
