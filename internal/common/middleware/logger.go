package middleware

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку на запрос с тегом сервиса, например "[VIEWER]".
// Частые pointer/move запросы пропускаются, иначе они забивают лог.
func Logger(tag string) fiber.Handler {
	return logger.New(loggerConfig(tag, os.Stdout))
}

func loggerConfig(tag string, out io.Writer) logger.Config {
	return logger.Config{
		Format:     "[${time}] [" + tag + "] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Stream:     out,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/pointer/move"
		},
	}
}
