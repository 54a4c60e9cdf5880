// Package main is the entry point for the promptlib server.
// It loads configuration, connects to the configured backends, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"promptlib/internal/cache"
	"promptlib/internal/config"
	"promptlib/internal/database"
	"promptlib/internal/handlers"
	"promptlib/internal/middleware"
	"promptlib/internal/router"
	"promptlib/internal/session"
	"promptlib/internal/storage"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageBackend,
		"sessions", cfg.SessionBackend,
	)

	// Connect to PostgreSQL only when it backs the settings slots.
	var db *sql.DB
	if cfg.UsesPostgres() {
		db, err = database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey when slots or sessions live there.
	var valkeyClient *redis.Client
	if cfg.UsesValkey() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
	}

	slots, err := slotStorage(cfg, db, valkeyClient)
	if err != nil {
		slog.Error("failed to initialize slot storage", "error", err)
		os.Exit(1)
	}

	// Page sessions. Session cookies are Secure outside development.
	secureCookies := !cfg.IsDev()
	var sessionBackend storage.Storage = storage.NewExpiringMemory(cfg.SessionTTL)
	if cfg.SessionBackend == config.BackendValkey {
		sessionBackend = storage.NewValkey(valkeyClient, "", cfg.SessionTTL)
	}
	sessionStore := session.NewStore(sessionBackend, cfg.SessionTTL, secureCookies)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, cfg.TrustProxy)
		defer limiter.Stop()
	} else {
		slog.Warn("rate limiting is disabled")
	}

	prompts := handlers.NewPrompts(sessionStore)
	settings := handlers.NewSettings(sessionStore, slots, cfg.SaveFeedback)

	r := router.New(sessionStore, prompts, settings, limiter, secureCookies)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// slotStorage builds the storage that holds the saved settings documents.
func slotStorage(cfg *config.Config, db *sql.DB, client *redis.Client) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		slog.Warn("settings are kept in memory and lost on restart")
		return storage.NewMemory(), nil
	case config.BackendValkey:
		return storage.NewValkey(client, "slot:", 0), nil
	case config.BackendPostgres:
		return storage.NewPostgres(db), nil
	case config.BackendS3:
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, "slots/")
		if err != nil {
			return nil, err
		}
		if s3 == nil {
			return nil, fmt.Errorf("s3 storage is not configured")
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return s3, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
