package health

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Check reports whether a dependency is usable.
type Check func() error

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe отвечает 503, пока хотя бы одна проверка не проходит.
func ReadinessProbe(checks ...Check) fiber.Handler {
	return func(c fiber.Ctx) error {
		for _, check := range checks {
			if err := check(); err != nil {
				log.Printf("[HEALTH] Not ready: %v", err)
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "not ready",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
