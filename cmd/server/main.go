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

	_ "github.com/joho/godotenv/autoload"

	"github.com/theLastOfCats/animewatcher-server/internal/api"
	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/auth"
	"github.com/theLastOfCats/animewatcher-server/internal/catalog"
	"github.com/theLastOfCats/animewatcher-server/internal/config"
	"github.com/theLastOfCats/animewatcher-server/internal/db"
	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/kv/redisstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := config.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Storage
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Initialize Services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.ProfileTokenTTL)
	hub := app.NewHub(store, logger)
	hub.SetIdleTimeout(cfg.ProfileIdleTTL)
	hub.StartEviction(ctx, app.DefaultEvictionInterval)
	defer hub.Close()

	tmdb := catalog.NewClient(catalog.Config{
		APIKey:   cfg.TMDBAPIKey,
		BaseURL:  cfg.TMDBBaseURL,
		Language: cfg.TMDBLanguage,
		Timeout:  cfg.TMDBTimeout,
		CacheTTL: cfg.CatalogCacheTTL,
	}, logger)
	if cfg.TMDBAPIKey == "" {
		logger.Warn("TMDB_API_KEY not set; serving the built-in catalog")
	}
	if cfg.NotifySimulation {
		hub.StartSimulation(ctx, tmdb)
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(api.RouterConfig{
			Tokens:      tokens,
			Hub:         hub,
			Catalog:     tmdb,
			CORSOrigins: cfg.CORSOrigins,
			Logger:      logger,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		store := redisstore.New(cfg.RedisAddr, cfg.RedisPassword)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.BackendMemory:
		return kv.NewMemoryStore(), func() {}, nil
	default:
		database, err := db.New(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return database, func() { _ = database.Close() }, nil
	}
}
