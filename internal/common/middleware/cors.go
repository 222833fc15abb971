package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS разрешает указанные источники через запятую; пусто значит все (dev).
func CORS(origins string) fiber.Handler {
	allow := []string{"*"}
	if origins != "" {
		allow = strings.Split(origins, ",")
		for i := range allow {
			allow[i] = strings.TrimSpace(allow[i])
		}
	}
	return cors.New(cors.Config{
		AllowOrigins: allow,
		AllowHeaders: []string{"Content-Type"},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
	})
}
