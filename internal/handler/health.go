package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// HealthHandler exposes the status endpoint load balancers and uptime
// monitors hit to verify the service and its dependencies are reachable.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports overall status plus per-dependency checks. It returns
// 200 when healthy and 503 when the database is unreachable. Redis being
// down degrades realtime and jobs but core reads still work, so it is
// reported without failing the check.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbStart := time.Now()
	if err := h.server.DB.Pool.Ping(ctx); err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}
		isHealthy = false

		logger.Error().Err(err).Dur("response_time", time.Since(dbStart)).Msg("database health check failed")
		h.recordHealthCheckError("database", err)
	} else {
		checks["database"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(dbStart).String(),
		}
	}

	if h.server.Redis != nil {
		redisStart := time.Now()
		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}

			logger.Error().Err(err).Dur("response_time", time.Since(redisStart)).Msg("redis health check failed")
			h.recordHealthCheckError("redis", err)
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordHealthCheckError(checkType string, err error) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent(
			"HealthCheckError",
			map[string]interface{}{
				"check_type":    checkType,
				"operation":     "health_check",
				"error_message": err.Error(),
			},
		)
	}
}
