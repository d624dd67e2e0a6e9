// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ujupatipanno/trash-note/internal/api"
	"github.com/ujupatipanno/trash-note/internal/collector"
	"github.com/ujupatipanno/trash-note/internal/ledger"
	"github.com/ujupatipanno/trash-note/internal/mcpserver"
	"github.com/ujupatipanno/trash-note/internal/settings"
	"github.com/ujupatipanno/trash-note/internal/sse"
	"github.com/ujupatipanno/trash-note/internal/vault"
)

// Run starts the HTTP server, the vault watcher, and everything they need.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("ledger_path", cfg.Ledger.Path),
		slog.String("settings_path", cfg.Settings.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init vault: %w", err)
	}

	st, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	led, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	defer led.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Collector service with its append queue.
	svc := collector.New(store, st, led, broker, logger)
	defer svc.Close()

	// In-process moves keep the configured collector path in sync.
	store.OnRename(svc.HandleRename)

	// Build API router.
	h := api.NewHandler(svc, store, st, led, broker)
	apiRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the vault for external edits and moves of the collector note.
	g.Go(func() error {
		err := vault.Watch(gCtx, store, cfg.Vault.Path,
			svc.Path,
			func(path string) {
				broker.PublishCollectorEvent("changed", path)
			},
			svc.HandleRename,
			logger)
		if err != nil {
			logger.Error("vault watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdio. Logging goes to stderr so stdout
// stays clean for the protocol; no HTTP server or watcher is started.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init vault: %w", err)
	}

	st, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	led, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	defer led.Close()

	svc := collector.New(store, st, led, nil, logger)
	defer svc.Close()

	store.OnRename(svc.HandleRename)

	logger.Info("MCP server starting on stdio",
		slog.String("vault_path", cfg.Vault.Path))

	return mcpserver.New(svc, led).ServeStdio()
}
