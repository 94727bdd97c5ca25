// Package main is the entry point for the WanderWise API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/xgraupera/WanderWise/internal/auth"
	"github.com/xgraupera/WanderWise/internal/config"
	"github.com/xgraupera/WanderWise/internal/handler"
	"github.com/xgraupera/WanderWise/internal/mail"
	"github.com/xgraupera/WanderWise/internal/middleware"
	"github.com/xgraupera/WanderWise/internal/repo"
	"github.com/xgraupera/WanderWise/internal/service"
	"github.com/xgraupera/WanderWise/migrations"
)

// maxRequestBody caps incoming request bodies. The largest legitimate payload
// is a full expense-sheet save, which stays far below this.
const maxRequestBody = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// Applied from the embedded FS on every start; goose records applied
	// versions so reruns are no-ops.
	if err := migrate(cfg.DatabaseURL); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema up to date")

	// --- Mail -------------------------------------------------------------
	var sender service.Sender
	if cfg.SMTPHost != "" {
		smtp, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		if err != nil {
			slog.Error("failed to configure SMTP sender", "error", err)
			os.Exit(1)
		}
		sender = smtp
	} else {
		slog.Warn("SMTP_HOST not set; outbound mail will only be logged")
		sender = &mail.LogSender{Log: logger}
	}

	// --- Wiring -----------------------------------------------------------
	users := repo.NewUserRepo(pool)
	trips := repo.NewTripRepo(pool)
	budgets := repo.NewBudgetRepo(pool)
	expenses := repo.NewExpenseRepo(pool)
	itinerary := repo.NewItineraryRepo(pool)
	reservations := repo.NewReservationRepo(pool)
	reminders := repo.NewReminderRepo(pool)
	checklist := repo.NewChecklistRepo(pool)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := service.NewAuthService(users, tokens, sender)
	tripSvc := service.NewTripService(trips, budgets, expenses)
	budgetSvc := service.NewBudgetService(trips, budgets, expenses, logger)
	expenseSvc := service.NewExpenseService(trips, expenses)
	itinerarySvc := service.NewItineraryService(trips, itinerary)
	reservationSvc := service.NewReservationService(trips, reservations, reminders, cfg.RearmSentReminders)
	checklistSvc := service.NewChecklistService(trips, checklist)
	reminderSvc := service.NewReminderService(reminders, sender, logger, cfg.SweepSendTimeout, cfg.SweepBatchSize)

	server := handler.NewServer(
		authSvc, tripSvc, budgetSvc, expenseSvc,
		itinerarySvc, reservationSvc, checklistSvc, reminderSvc,
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body-size cap. RequestID generates a unique trace ID per
	// request; RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP
	// (safe behind a proxy); SlogLogger writes one structured JSON log line
	// per request; Recoverer catches panics and returns HTTP 500 instead of
	// crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	r.Mount("/", server.Routes(middleware.NewAuthenticator(tokens)))

	// --- Background sweep -------------------------------------------------
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go reminderSvc.Run(sweepCtx, cfg.SweepInterval)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
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
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies all pending migrations from the embedded FS. goose drives a
// database/sql connection, so a short-lived one is opened alongside the pool.
func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
