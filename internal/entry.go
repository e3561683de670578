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

	"github.com/starford/swara/internal/mcpserver"
	"github.com/starford/swara/internal/models"
	"github.com/starford/swara/internal/web"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts, os.Stdout)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("classifier_path", cfg.Model.ClassifierPath),
		slog.String("encoder_path", cfg.Model.EncoderPath),
		slog.String("scratch_dir", cfg.Upload.ScratchDir),
		slog.Int64("max_upload_bytes", cfg.Upload.MaxBytes),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, closeSvc, err := app.buildService()
	if err != nil {
		return err
	}
	defer closeSvc()

	handler := web.NewHandler(svc, cfg.Upload.MaxBytes, logger)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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
		defer signal.Stop(quit)

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

// newRouter wires middleware, health checks and the web handler.
func newRouter(handler *web.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
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

	// Upload form and JSON API.
	handler.Routes(r)

	return r
}

// Classify recognises a single local clip. Logs go to stderr so stdout stays
// free for the result.
func Classify(ctx context.Context, path string, opts ...Option) (*models.Prediction, error) {
	app, err := newApplication(opts, os.Stderr)
	if err != nil {
		return nil, err
	}
	svc, closeSvc, err := app.buildService()
	if err != nil {
		return nil, err
	}
	defer closeSvc()

	return svc.Identify(ctx, path)
}

// ServeMCP runs the MCP tool server on stdin/stdout until the client
// disconnects. Logs go to stderr.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts, os.Stderr)
	if err != nil {
		return err
	}
	svc, closeSvc, err := app.buildService()
	if err != nil {
		return err
	}
	defer closeSvc()

	app.logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc, app.config.Upload.MaxBytes).ServeStdio()
}
