package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/config"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a handler that reports application health, pinging the
// database and cache when available.
func HealthCheck(cfg config.Config, db *gorm.DB, cache *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := make(map[string]string)
		status := "ok"

		if db != nil {
			checks["database"] = "ok"
			if sqlDB, err := db.DB(); err != nil {
				checks["database"] = err.Error()
				status = "degraded"
			} else if err := sqlDB.PingContext(c.UserContext()); err != nil {
				checks["database"] = err.Error()
				status = "degraded"
			}
		}

		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(c.UserContext()).Err(); err != nil {
				checks["redis"] = err.Error()
				status = "degraded"
			}
		}

		payload := HealthResponse{
			Status:      status,
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Checks:      checks,
		}

		if status != "ok" {
			return utils.SendSuccessWithStatus(c, fiber.StatusServiceUnavailable, "service degraded", payload)
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}
