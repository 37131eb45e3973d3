package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerlens/internal/cache"
	"careerlens/internal/logging"
	"careerlens/pkg/models"
)

// InvalidateRequest narrows a cache invalidation to a type and/or a params
// subset. Empty means everything.
type InvalidateRequest struct {
	CacheType string            `json:"cache_type"`
	Params    map[string]string `json:"params"`
}

// CacheInvalidateHandler deletes matching cache entries.
func CacheInvalidateHandler(store cache.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestID(c)
		logger := logging.GetGlobalLogger().WithField("request_id", requestID)

		var req InvalidateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		deleted, err := store.Invalidate(c.Request().Context(), req.CacheType, req.Params)
		if err != nil {
			logger.Error("Cache invalidation failed", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "invalidation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Cache invalidated", map[string]interface{}{
			"cache_type": req.CacheType,
			"deleted":    deleted,
		})

		return c.JSON(http.StatusOK, models.InvalidateResponse{DeletedCount: deleted})
	}
}

// CacheStatsHandler returns a snapshot of cache health.
func CacheStatsHandler(store cache.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestID(c)

		stats, err := store.Stats(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "stats_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, stats)
	}
}

// CacheSweepHandler clears expired entries immediately.
func CacheSweepHandler(store cache.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestID(c)

		deleted, err := store.ClearExpired(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "sweep_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.InvalidateResponse{DeletedCount: deleted})
	}
}
