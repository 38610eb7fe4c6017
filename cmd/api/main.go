package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/adapters/ollama"
	"github.com/ewilliams-labs/stride/internal/adapters/rest"
	"github.com/ewilliams-labs/stride/internal/adapters/spotify"
	"github.com/ewilliams-labs/stride/internal/adapters/sqlite"
	"github.com/ewilliams-labs/stride/internal/config"
	"github.com/ewilliams-labs/stride/internal/core/planner"
	"github.com/ewilliams-labs/stride/internal/core/services"
	"github.com/ewilliams-labs/stride/internal/logging"
	"github.com/ewilliams-labs/stride/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "Configuration file path (default stride.toml)")
	pflag.Parse()

	// 1. Configuration
	// Crash early if required config is missing.
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireSpotifyCredentials(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Initialize "Driven" Adapters (The Tools)
	db, err := sqlite.NewAdapter(cfg.Server.DatabasePath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	oauthCfg := spotify.NewOAuthConfig(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURL)
	spotifyClient := spotify.NewClient(&http.Client{Timeout: 30 * time.Second}, cfg.Spotify.BaseURL, spotify.Options{
		MaxRetries:         cfg.Spotify.MaxRetries,
		BaseBackoff:        cfg.RetryBackoff(),
		MaxSavedTracks:     cfg.Spotify.MaxSavedTracks,
		FeatureConcurrency: cfg.Spotify.FeatureConcurrency,
		OAuth:              oauthCfg,
		Sessions:           db,
		Logger:             logger.Named("spotify"),
	})

	goals := ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Model)

	pl, err := planner.New(cfg.PlannerConfig())
	if err != nil {
		return fmt.Errorf("initialize planner: %w", err)
	}

	// 3. Initialize Core Logic (The Driver)
	// The pool is the service's publish queue and the service is the pool's
	// publisher, so the pool starts once both exist.
	pool := worker.NewPool(cfg.Worker.Workers, cfg.Worker.QueueSize, logger.Named("worker"))
	svc := services.NewOrchestrator(services.Dependencies{
		Spotify:   spotifyClient,
		Repo:      db,
		Sessions:  db,
		Goals:     goals,
		Queue:     pool,
		Planner:   pl,
		Distances: cfg.Distances,
		Logger:    logger.Named("service"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Queued publishes are drained on shutdown, so the pool does not share
	// the signal context.
	pool.Start(context.Background(), svc)
	defer pool.Stop()

	// 4. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(svc, rest.Options{
		OAuth:         oauthCfg,
		Ready:         db.Ping,
		SecureCookies: cfg.Server.SecureCookies,
		Logger:        logger.Named("rest"),
	})

	// 5. Start the Server
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()
	logger.Info("stride api listening", zap.String("addr", cfg.Server.Addr), zap.String("database", cfg.Server.DatabasePath))

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}
	return nil
}
