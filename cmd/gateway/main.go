package main

import (
	"fmt"
	"log"
	"time"

	"floorplan-viewer/internal/common/config"
	"floorplan-viewer/internal/common/health"
	"floorplan-viewer/internal/common/middleware"
	"floorplan-viewer/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	viewer := proxy.NewUpstream(cfg.ViewerURL, time.Duration(cfg.WriteTimeout)*time.Second)

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("GATEWAY"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe(viewer.Ping))
	app.Get("/health/startup", health.StartupProbe)

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Viewer Service: the browser page and the whole /api/v1 surface.
	app.Get("/", viewer.ProxyTo("/"))
	app.All("/api/v1/*", viewer.Mirror())

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1 to %s", viewer.BaseURL())

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
