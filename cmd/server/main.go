package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/policyquery/internal/api"
	"github.com/dgallion1/policyquery/internal/config"
	"github.com/dgallion1/policyquery/internal/dispatch"
	"github.com/dgallion1/policyquery/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	qs := stats.New(cfg.StatsWindow)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		BaseURL:            cfg.RemoteBaseURL,
		AuthToken:          cfg.RemoteAuthToken,
		Timeout:            cfg.QueryTimeout,
		DefaultDocumentURL: cfg.DefaultDocumentURL,
	}, log, qs)

	srv := api.NewServer(dispatcher, qs, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		dispatcher.Close()
	}()

	log.Info("starting policyquery", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
