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

	"board-api/cache"
	"board-api/config"
	"board-api/database"
	"board-api/jobs"
	"board-api/repositories"
	"board-api/routes"
	"board-api/services"
	"board-api/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)
	utils.RegisterValidators()

	if cfg.IsProduction() && cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is not set, tokens are signed with the development default")
	}

	db, err := database.Initialize(cfg.Database, cfg.Debug)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "err", err)
		os.Exit(1)
	}

	if !cfg.IsProduction() {
		if err := database.SeedData(db); err != nil {
			logger.Warn("failed to seed database", "err", err)
		}
	}

	store := newCacheStore(cfg, logger)
	defer store.Close()

	listing := services.NewPostListingCache(
		store,
		repositories.NewPostRepository(db),
		repositories.NewLikeRepository(db),
		cfg.Cache.TTL,
		logger,
	)
	emailService := services.NewEmailService(cfg, logger)

	router := routes.NewRouter(cfg, logger)
	routes.SetupRoutes(router, db, store, listing, cfg, emailService, logger)

	statsJob := jobs.NewCacheStatsJob(listing, cfg.StatsInterval, logger)
	statsJob.Start()
	defer statsJob.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting board API server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

// newCacheStore returns the configured store. An unreachable Redis is not fatal: the listing
// degrades to direct database reads until it comes back.
func newCacheStore(cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.Cache.Driver == "memory" {
		logger.Info("using in-process cache store", "size", cfg.Cache.MemorySize)
		return cache.NewMemoryStore(cfg.Cache.MemorySize)
	}

	store := cache.NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, listing cache will degrade", "addr", cfg.Cache.RedisAddr, "err", err)
	} else {
		logger.Info("connected to redis", "addr", cfg.Cache.RedisAddr)
	}
	return store
}
