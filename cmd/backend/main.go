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

	blobstoreimpl "github.com/foxseedlab/ahirun/external/blobstore"
	configloader "github.com/foxseedlab/ahirun/external/config"
	docstoreimpl "github.com/foxseedlab/ahirun/external/docstore"
	"github.com/foxseedlab/ahirun/external/httpserver"
	notifyimpl "github.com/foxseedlab/ahirun/external/notify"
	synthesizerimpl "github.com/foxseedlab/ahirun/external/synthesizer"
	transcriberimpl "github.com/foxseedlab/ahirun/external/transcriber"
	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/foxseedlab/ahirun/internal/finalize"
	"github.com/foxseedlab/ahirun/internal/journal"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 20 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server")
	runServer(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	docstoreimpl.RegisterDI(injector)
	blobstoreimpl.RegisterDI(injector)
	synthesizerimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	notifyimpl.RegisterDI(injector)
	journal.RegisterDI(injector)
	finalize.RegisterDI(injector)
	httpserver.RegisterDI(injector)

	return injector
}

func runServer(injector do.Injector) {
	server, err := do.Invoke[*httpserver.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("http server shutdown failed", "error", err)
		}
	case <-done:
	}
}
