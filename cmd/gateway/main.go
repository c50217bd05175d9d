// cmd/gateway/main.go
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

	"shareit/internal/config"
	"shareit/internal/gateway"
	"shareit/internal/telemetry"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.LoadGateway()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "shareit-gateway", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracing init failed", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	client := gateway.NewClient(cfg.ServerURL, cfg.RateLimit, cfg.RateBurst)
	handlers := gateway.NewHandlers(client, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gateway.NewRouter(handlers),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("gateway listening", "port", cfg.Port, "server_url", cfg.ServerURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("gateway stopped", "error", err)
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
