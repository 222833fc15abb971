package main

import (
	"fmt"
	"log"
	"time"

	"floorplan-viewer/internal/common/config"
	"floorplan-viewer/internal/common/health"
	"floorplan-viewer/internal/common/middleware"
	"floorplan-viewer/internal/viewer/handlers"
	"floorplan-viewer/internal/viewer/loader"
	"floorplan-viewer/internal/viewer/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Viewer Service
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := service.NewHost(cfg.ViewerOptions(), cfg.CanvasWidth, cfg.CanvasHeight)
	if cfg.PlanPath != "" {
		plan, err := loader.LoadFile(cfg.PlanPath)
		if err != nil {
			log.Fatalf("Failed to load plan %s: %v", cfg.PlanPath, err)
		}
		host.Load(plan)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Floor Plan Viewer",
		ErrorHandler: handlers.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("VIEWER"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe())

	// ============================================================
	// Viewer Routes
	// ============================================================

	app.Get("/", handlers.Page)
	handlers.NewViewerHandler(host).Routes(app.Group("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Viewer Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
