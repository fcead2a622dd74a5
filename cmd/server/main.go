// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package main is the entry point for the Vitrina server.
//
// Vitrina serves a static media catalog: content, site configuration and
// recommendation datasets loaded from JSON files, cached in memory with
// TTL and stale fallback, searchable by keyword and navigable through a
// path router.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file, env vars)
//  2. Logging: zerolog, JSON or console format
//  3. Catalog: dataset fetcher (filesystem or HTTP origin, optionally
//     behind a circuit breaker), TTL cache and retrying loader
//  4. Search engine
//  5. HTTP server: Chi router with REST API, view dispatch, dataset
//     files and Prometheus metrics
//
// # Configuration
//
// All settings carry the VITRINA_ prefix as environment variables:
//
//	export VITRINA_CATALOG_DATA_DIR=/srv/vitrina/data
//	export VITRINA_SERVER_PORT=4178
//	export VITRINA_LOGGING_LEVEL=debug
//	./vitrina
//
// A remote origin replaces the local data directory:
//
//	export VITRINA_CATALOG_BASE_URL=https://cdn.example.com
//	export VITRINA_CATALOG_BREAKER_ENABLED=true
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections and waits up to 10 seconds for in-flight
// requests.
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

	"github.com/tomtom215/vitrina/internal/api"
	"github.com/tomtom215/vitrina/internal/cache"
	"github.com/tomtom215/vitrina/internal/catalog"
	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/search"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Msg("Starting Vitrina")

	loader := buildLoader(cfg)
	engine := search.New()

	// Warm the cache before accepting traffic. A failed preload is not
	// fatal: loads retry per request and fall back to stale cache once
	// any fetch has succeeded.
	preloadCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	if err := loader.PreloadAll(preloadCtx); err != nil {
		logging.Warn().Err(err).Msg("Dataset preload failed, continuing with lazy loads")
	} else if dataset, err := loader.LoadContent(preloadCtx); err == nil {
		engine.SetData(dataset.Content)
		logging.Info().Int("items", len(dataset.Content)).Msg("Catalog preloaded")
	}
	cancel()

	handler := api.NewHandler(cfg, loader, engine)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Forced shutdown after timeout")
		return err
	}

	logging.Info().Msg("Server stopped gracefully")
	return nil
}

// buildLoader assembles the dataset pipeline: transport selection,
// optional circuit breaker, TTL cache and retrying loader.
func buildLoader(cfg *config.Config) *catalog.Loader {
	var fetcher catalog.Fetcher
	if cfg.Catalog.BaseURL != "" {
		fetcher = catalog.NewHTTPFetcher(cfg.Catalog.BaseURL, cfg.Catalog.FetchTimeout)
		logging.Info().Str("origin", cfg.Catalog.BaseURL).Msg("Using HTTP dataset origin")
	} else {
		fetcher = catalog.NewFileFetcher(cfg.Catalog.DataDir)
		logging.Info().Str("dir", cfg.Catalog.DataDir).Msg("Using local dataset directory")
	}

	if cfg.Catalog.BreakerEnabled {
		fetcher = catalog.NewBreakerFetcher(fetcher)
		logging.Info().Msg("Dataset fetcher wrapped with circuit breaker")
	}

	return catalog.New(fetcher, cache.New(cfg.Catalog.CacheTTL), catalog.Options{
		RetryAttempts: cfg.Catalog.RetryAttempts,
		RetryDelay:    cfg.Catalog.RetryDelay,
	})
}
