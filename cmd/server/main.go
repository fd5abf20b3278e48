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

	"github.com/templui/golfjournal/internal/app"
	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/logger"
	"github.com/templui/golfjournal/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		logger.Close()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()
	app.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// hijacked websocket connections are closed by app.Close
	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
