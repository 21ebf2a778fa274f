package main

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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/imagelabels/internal/adapter/driven/sqlite"
	visionadapter "github.com/ericfisherdev/imagelabels/internal/adapter/driven/vision"
	httphandler "github.com/ericfisherdev/imagelabels/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/imagelabels/internal/adapter/driving/web"
	"github.com/ericfisherdev/imagelabels/internal/application"
	"github.com/ericfisherdev/imagelabels/internal/config"
	"github.com/ericfisherdev/imagelabels/internal/domain/model"
	"github.com/ericfisherdev/imagelabels/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"service_account", cfg.HasServiceAccount(),
		"vision_timeout", cfg.VisionTimeout,
		"max_upload_bytes", cfg.MaxUploadBytes,
		"cache_enabled", cfg.CacheEnabled(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Vision client is built on the first labeling request.
	serviceAccountJSON := cfg.ServiceAccountJSON
	maxResults := cfg.VisionMaxResults
	factory := func(ctx context.Context) (driven.ImageLabeler, error) {
		if serviceAccountJSON == "" {
			return nil, fmt.Errorf("%w: GCP_SA_JSON is not set", model.ErrConfiguration)
		}
		client, err := visionadapter.NewClient(context.WithoutCancel(ctx), serviceAccountJSON, maxResults)
		if err != nil {
			return nil, err
		}
		slog.Info("vision client created")
		return client, nil
	}
	provider := application.NewLabelerProvider(nil, factory)
	defer func() {
		if closeErr := provider.Close(); closeErr != nil {
			slog.Error("error closing vision client", "error", closeErr)
		}
	}()
	if !cfg.HasServiceAccount() {
		slog.Warn("GCP_SA_JSON is not set, label requests will fail until it is provided")
	}

	opts := []application.LabelServiceOption{application.WithCallTimeout(cfg.VisionTimeout)}

	// 4. Optional label cache (dual reader/writer with WAL mode).
	if cfg.CacheEnabled() {
		db, err := sqliteadapter.NewDB(ctx, cfg.CacheDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		slog.Info("cache database opened", "path", db.Path())

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			return err
		}
		slog.Info("migrations complete")

		cache := sqliteadapter.NewLabelCacheRepo(db)
		opts = append(opts, application.WithLabelCache(cache, cfg.CacheTTL))

		purger := application.NewCachePurger(cache, cfg.CacheTTL, cfg.CachePurgeInterval)
		go purger.Start(ctx)
	}

	// 5. Create label service.
	labelSvc := application.NewLabelService(provider, slog.Default(), opts...)

	// 6. Create HTTP handler and register API routes.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(labelSvc, cfg.MaxUploadBytes, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(labelSvc, cfg.MaxUploadBytes, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware (Basic-Auth gate covers every route).
	creds := httphandler.BasicAuthCredentials{User: cfg.BasicAuthUser, Password: cfg.BasicAuthPassword}
	handler := httphandler.ApplyMiddleware(mux, creds, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.VisionTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("imagelabels started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// 9. Graceful shutdown with 10s drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
