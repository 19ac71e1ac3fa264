package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/widya-labs/pustaka-api/internal/config"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
// ClosingTime and Timezone are included so kiosk clients can render the
// library schedule without an authenticated call.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Timezone    string    `json:"timezone"`
	ClosingTime string    `json:"closing_time"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Timezone:    cfg.Timezone,
			ClosingTime: fmt.Sprintf("%02d:%02d", cfg.ClosingHour, cfg.ClosingMinute),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
