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

	"github.com/Ankit1478/LLM-Internals/internal/api"
	"github.com/Ankit1478/LLM-Internals/internal/content"
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/index"
	"github.com/Ankit1478/LLM-Internals/internal/sse"
	"github.com/Ankit1478/LLM-Internals/internal/web"
)

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{logOutput: os.Stdout, version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app, logger, nil
}

// openService loads the configured content and search index.
func openService(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...docservice.Option) (*docservice.Service, content.Source, error) {
	src, err := content.Open(cfg.Content.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init content: %w", err)
	}

	var idx index.SearchIndex
	if cfg.Index.Enabled {
		db, err := index.Open(ctx, cfg.Index.Driver, cfg.Index.DSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init index: %w", err)
		}
		idx = db
	}

	svc, err := docservice.New(ctx, src, idx, logger, opts...)
	if err != nil {
		if idx != nil {
			_ = idx.Close()
		}
		return nil, nil, fmt.Errorf("load content: %w", err)
	}
	return svc, src, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.Bool("content_watch", cfg.Content.Watch),
		slog.Bool("index_enabled", cfg.Index.Enabled),
		slog.String("index_driver", cfg.Index.Driver),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(cfg.SSE.RoadmapThrottle, sse.WithHeartbeat(cfg.SSE.Heartbeat))
	defer broker.Close()

	svc, src, err := openService(ctx, cfg, logger, docservice.WithOnReload(sse.ReloadNotifier(broker)))
	if err != nil {
		return err
	}
	defer svc.Close()

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	api.MountHealth(r, svc)

	// Mount API routes under /api, SSE included.
	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	// HTML pages.
	r.Mount("/", web.NewRouter(svc))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Ends open event streams so Shutdown does not wait on them.
	httpServer.RegisterOnShutdown(broker.Close)

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher; every burst of changes triggers a reload.
	if cfg.Content.Watch {
		g.Go(func() error {
			err := content.Watch(gCtx, src.Root(), cfg.Content.Debounce, logger, func(ctx context.Context, paths []string) {
				logger.Info("content changed", slog.Int("files", len(paths)))
				// Reload logs its own rejection; the old snapshot stays live.
				_, _ = svc.Reload(ctx)
			})
			if err != nil {
				return fmt.Errorf("content watcher: %w", err)
			}
			return nil
		})
	}

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
		cancel()

		logger.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
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
