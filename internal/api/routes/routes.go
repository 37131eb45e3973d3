package routes

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"careerlens/internal/aggregate"
	"careerlens/internal/api/handlers"
	"careerlens/internal/api/middleware"
	"careerlens/internal/cache"
	"careerlens/internal/config"
	"careerlens/pkg/models"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, orch *aggregate.Orchestrator, store cache.Store) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(cfg.Aggregation.RequestTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(store))
		health.GET("/live", handlers.LivenessHandler)
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			jobs.GET("/search", handlers.SearchHandler(models.DomainJobs, orch))
			jobs.GET("/featured", handlers.FeaturedHandler(models.DomainJobs, orch))
		}

		courses := v1.Group("/courses")
		{
			courses.GET("/search", handlers.SearchHandler(models.DomainCourses, orch))
			courses.GET("/featured", handlers.FeaturedHandler(models.DomainCourses, orch))
		}

		cacheGroup := v1.Group("/cache")
		{
			cacheGroup.GET("/stats", handlers.CacheStatsHandler(store))
			cacheGroup.POST("/invalidate", handlers.CacheInvalidateHandler(store))
			cacheGroup.POST("/sweep", handlers.CacheSweepHandler(store))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "CareerLens Aggregator",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
