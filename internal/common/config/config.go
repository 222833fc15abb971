package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"floorplan-viewer/internal/viewer"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `env:"PORT" envDefault:"3000"`
	Environment  string `env:"ENV" envDefault:"development"`
	ReadTimeout  int    `env:"READ_TIMEOUT" envDefault:"10"`
	WriteTimeout int    `env:"WRITE_TIMEOUT" envDefault:"10"`
	CORSOrigins  string `env:"CORS_ORIGINS"`

	// Viewer
	PlanPath     string  `env:"PLAN_PATH"`
	CanvasWidth  int     `env:"CANVAS_WIDTH" envDefault:"1280"`
	CanvasHeight int     `env:"CANVAS_HEIGHT" envDefault:"720"`
	InitialScale float64 `env:"INITIAL_SCALE" envDefault:"6"`
	ZoomStep     float64 `env:"ZOOM_STEP" envDefault:"1.1"`
	MinScale     float64 `env:"MIN_SCALE" envDefault:"0"`
	MaxScale     float64 `env:"MAX_SCALE" envDefault:"0"`
	HitMode      string  `env:"HIT_MODE" envDefault:"bounds"`

	// Gateway
	ViewerURL string `env:"VIEWER_URL" envDefault:"http://localhost:3001"`

	// Terminal host
	TUILog string `env:"TUI_LOG"`
}

// Load загружает .env (если есть), затем переменные окружения.
// Уже заданные переменные окружения не перезаписываются.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		log.Printf("[CONFIG] No .env file, using environment only")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if c.InitialScale <= 0 {
		return fmt.Errorf("INITIAL_SCALE must be positive, got %v", c.InitialScale)
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("ZOOM_STEP must be greater than 1, got %v", c.ZoomStep)
	}
	if c.MinScale < 0 || c.MaxScale < 0 {
		return errors.New("MIN_SCALE and MAX_SCALE must not be negative")
	}
	if c.MinScale > 0 && c.MaxScale > 0 && c.MinScale > c.MaxScale {
		return fmt.Errorf("MIN_SCALE %v is above MAX_SCALE %v", c.MinScale, c.MaxScale)
	}
	if _, err := viewer.ParseHitMode(c.HitMode); err != nil {
		return fmt.Errorf("HIT_MODE: %w", err)
	}
	return nil
}

// ViewerOptions converts the viewer settings. Load has already validated
// HitMode.
func (c *Config) ViewerOptions() viewer.Options {
	mode, _ := viewer.ParseHitMode(c.HitMode)
	return viewer.Options{
		InitialScale: c.InitialScale,
		ZoomStep:     c.ZoomStep,
		MinScale:     c.MinScale,
		MaxScale:     c.MaxScale,
		HitMode:      mode,
	}
}
