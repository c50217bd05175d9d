// cmd/server/main.go
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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shareit/internal/bookings"
	"shareit/internal/config"
	"shareit/internal/db"
	"shareit/internal/items"
	"shareit/internal/requests"
	"shareit/internal/telemetry"
	"shareit/internal/users"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.LoadServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "shareit-server", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracing init failed", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		log.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(database)
	userSvc := users.NewService(userRepo)

	bookingRepo := bookings.NewRepository(database)
	bookingSvc := bookings.NewService(bookingRepo, userSvc)

	itemRepo := items.NewRepository(database)
	itemSvc := items.NewService(itemRepo, userSvc, bookingSvc)

	requestRepo := requests.NewRepository(database)
	requestSvc := requests.NewService(requestRepo, userSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Route("/users", users.NewHandler(userSvc, log).Routes)
	router.Route("/items", items.NewHandler(itemSvc, log).Routes)
	router.Route("/bookings", bookings.NewHandler(bookingSvc, log).Routes)
	router.Route("/requests", requests.NewHandler(requestSvc, log).Routes)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
