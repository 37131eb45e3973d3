package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerlens/internal/cache"
	"careerlens/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports readiness including the cache backend.
func ReadinessHandler(store cache.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api":   "ok",
			"cache": "ok",
		}
		status := "ready"
		code := http.StatusOK

		if err := store.Ping(c.Request().Context()); err != nil {
			// Cache loss degrades to live-fetch-only; the service still serves.
			checks["cache"] = "degraded: " + err.Error()
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	})
}
