package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/linkpuzzle/internal/api"
	"github.com/vytor/linkpuzzle/internal/catalog"
	"github.com/vytor/linkpuzzle/internal/config"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/storage"
)

func main() {
	cfg := config.Load(nil)

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Link Puzzle Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_backend=%s", cfg.StoreBackend)
	log.Debug("puzzles_path=%q", cfg.PuzzlesPath)
	log.Debug("start_date=%s", cfg.StartDate)
	log.Debug("max_guesses=%d", cfg.MaxGuesses)
	log.Debug("rate_limit=%v/s burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	log.Debug("log_level=%s", cfg.LogLevel)

	ctx := context.Background()

	// Open session store
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open session store: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing session store")
		backend.Close()
	}()

	// Load puzzles
	start, _ := cfg.Start()
	cat, err := catalog.Load(cfg.PuzzlesPath, start)
	if err != nil {
		log.Error("failed to load puzzle catalog: %v", err)
		os.Exit(1)
	}
	log.Info("loaded %d puzzles, today is #%d", cat.Len(), cat.DayIndex(time.Now()))

	srv := &api.Server{
		Catalog:    cat,
		Sessions:   api.NewSessionStore(backend),
		MaxGuesses: cfg.MaxGuesses,
		Limiter:    api.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Ready:      backend.Ping,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Link Puzzle Server Stopped")
	log.Info("===========================================")
}
