package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"ContentDiscovery/internal/api/middleware"
	"ContentDiscovery/internal/api/routes"
	"ContentDiscovery/internal/config"
	"ContentDiscovery/internal/core/feed"
	"ContentDiscovery/internal/core/interactions"
	"ContentDiscovery/internal/core/metrics"
	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/tags"
	"ContentDiscovery/internal/core/trending"
	"ContentDiscovery/internal/db/migrations"
	postgresRepo "ContentDiscovery/internal/db/postgres"
	"ContentDiscovery/internal/identity"
	"ContentDiscovery/internal/notifications"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.App.LogFormat, cfg.App.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		return err
	}
	slog.Info("Connected to database")

	if err := migrations.Up(ctx, db); err != nil {
		return err
	}
	slog.Info("Migrations completed successfully")

	// Identity gateway, with profiles cached in Redis when configured
	identityClient := identity.NewClient(identity.Config{
		BaseURL:    cfg.Identity.URL,
		Timeout:    cfg.Identity.Timeout,
		MaxRetries: cfg.Identity.MaxRetries,
	})
	profileCache := identity.NewLRUCache(cfg.Identity.ProfileCacheLen, cfg.Identity.ProfileCacheTTL)
	if cfg.Identity.RedisURL != "" {
		redisCache, redisClient, err := identity.NewRedisCache(ctx, cfg.Identity.RedisURL, cfg.Identity.ProfileCacheTTL)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		profileCache = redisCache
		slog.Info("Using Redis profile cache")
	}
	identityClient = identity.NewCachingClient(identityClient, profileCache)

	// Repositories
	snapRepo := postgresRepo.NewSnapRepository(db)
	feedRepo := postgresRepo.NewFeedRepository(db)
	interactionRepo := postgresRepo.NewInteractionRepository(db)
	tagRepo := postgresRepo.NewTagRepository(db)
	topicRepo := postgresRepo.NewTopicRepository(db)
	metricsRepo := postgresRepo.NewMetricsRepository(db)

	// Feed first: notification payloads are rendered through it
	feedService := feed.NewFeedService(feedRepo, identityClient)

	dispatcher := notifications.NewDispatcher(
		notifications.NewClient(cfg.Notifications.URL, cfg.Notifications.Timeout),
		cfg.Notifications.Workers,
		cfg.Notifications.QueueSize,
		cfg.Notifications.Timeout,
	)
	publisher := notifications.NewPublisher(dispatcher, feedService)

	engine := trending.NewEngine(topicRepo, publisher, trending.Config{
		Window:            cfg.Trending.Window,
		Threshold:         cfg.Trending.Threshold,
		Retention:         cfg.Trending.Retention,
		PromotionInterval: cfg.Trending.PromotionInterval,
		EvictionInterval:  cfg.Trending.EvictionInterval,
	})

	recorder := tags.NewRecorder(tagRepo, identityClient, engine, publisher)
	snapService := snaps.NewSnapService(snapRepo, recorder, publisher)
	interactionService := interactions.NewInteractionService(interactionRepo, snapRepo, publisher)
	metricsService := metrics.NewMetricsService(metricsRepo)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer rateLimiter.Close()
	r.Use(rateLimiter.Middleware)

	routes.RegisterHealthRoutes(r, db)
	routes.RegisterSnapRoutes(r, snapService)
	routes.RegisterFeedRoutes(r, feedService)
	routes.RegisterInteractionRoutes(r, interactionService)
	routes.RegisterTrendingRoutes(r, engine)
	routes.RegisterMetricsRoutes(r, metricsService)

	if err := engine.Start(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Content discovery service starting",
			"port", cfg.App.Port,
			"env", cfg.App.Env,
			"identity_url", cfg.Identity.URL,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	if err := engine.Shutdown(); err != nil {
		slog.Error("Trending engine shutdown failed", "error", err)
	}
	// Drain after the engine so its last notifications are delivered
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Error("Notification dispatcher shutdown failed", "error", err)
	}
	return nil
}

func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
