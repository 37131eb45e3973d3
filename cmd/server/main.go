package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"careerlens/internal/aggregate"
	"careerlens/internal/api/routes"
	"careerlens/internal/cache"
	"careerlens/internal/config"
	"careerlens/internal/logging"
	"careerlens/internal/providers"
	"careerlens/internal/providers/courses"
	"careerlens/internal/providers/jobs"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting CareerLens Aggregator")

	// Initialize cache store
	store := buildStore(cfg)
	defer store.Close()

	// Register provider adapters. Registration order is the dedup
	// tie-break order, so it is fixed here rather than left to a map.
	registry := providers.NewRegistry()
	registerProviders(cfg, registry)
	logger.Info("Providers registered", map[string]interface{}{
		"jobs":    registry.Names("jobs"),
		"courses": registry.Names("courses"),
	})

	// Wire the orchestrator
	guard := aggregate.NewProviderGuard(cfg)
	orchestrator := aggregate.NewOrchestrator(cfg, store, registry, guard)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, cfg, orchestrator, store)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		if err := store.Close(); err != nil {
			logger.Error("Error closing cache store", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// buildStore creates the configured cache backend, falling back to the
// in-memory store when redis is unreachable. Losing the cache only costs
// cache hits; it never blocks serving.
func buildStore(cfg *config.Config) cache.Store {
	logger := logging.GetGlobalLogger()

	if cfg.Cache.Backend != "redis" {
		logger.Info("Using in-memory cache store")
		return cache.NewMemoryStore(cfg)
	}

	store, err := cache.NewRedisStore(cfg)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
		defer cancel()
		if err = store.Ping(ctx); err == nil {
			logger.Info("Using redis cache store", map[string]interface{}{
				"url": cfg.Redis.URL,
			})
			return store
		}
	}

	logger.Warn("Redis unavailable, falling back to in-memory cache", map[string]interface{}{
		"error": err.Error(),
	})
	return cache.NewMemoryStore(cfg)
}

func registerProviders(cfg *config.Config, registry *providers.Registry) {
	if cfg.Providers.JSearch.Enabled && cfg.Providers.JSearch.APIKey != "" {
		_ = registry.Register(jobs.NewJSearchAdapter(cfg))
	}
	if cfg.Providers.Remotive.Enabled {
		_ = registry.Register(jobs.NewRemotiveAdapter(cfg))
	}
	if cfg.Providers.Coursera.Enabled {
		_ = registry.Register(courses.NewCourseraAdapter(cfg))
	}
	if cfg.Providers.ClassCentral.Enabled {
		_ = registry.Register(courses.NewClassCentralAdapter(cfg))
	}
}
