package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"careerlens/internal/aggregate"
	"careerlens/internal/logging"
	"careerlens/pkg/models"
	"careerlens/pkg/utils"
)

var validate = validator.New()

// SearchHandler handles aggregated search requests for one domain.
func SearchHandler(domain models.Domain, orch *aggregate.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := requestID(c)
		logger := logging.GetGlobalLogger().WithFields(map[string]interface{}{
			"request_id": requestID,
			"domain":     string(domain),
		})

		var req models.SearchRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind search request", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		result, err := orch.Search(c.Request().Context(), req.ToQuery(domain))
		if err != nil {
			if utils.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:     "validation_failed",
					Message:   err.Error(),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			logger.Error("Search failed", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "search_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Search completed", map[string]interface{}{
			"total":           result.Total,
			"cached":          result.Cached,
			"provider_errors": len(result.Errors),
			"processing_time": utils.FormatDuration(time.Since(startTime)),
		})

		return c.JSON(http.StatusOK, result)
	}
}

// FeaturedHandler serves the curated featured listing for a domain.
func FeaturedHandler(domain models.Domain, orch *aggregate.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestID(c)

		limit := 0
		if raw := c.QueryParam("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:     "validation_failed",
					Message:   "limit must be a positive integer",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			limit = n
		}

		result, err := orch.Featured(c.Request().Context(), domain, limit)
		if err != nil {
			if utils.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:     "validation_failed",
					Message:   err.Error(),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "featured_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, result)
	}
}

func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}
