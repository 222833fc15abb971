package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"floorplan-viewer/internal/common/config"
	"floorplan-viewer/internal/tui"
	"floorplan-viewer/internal/viewer/loader"
	"floorplan-viewer/internal/viewer/models"

	"github.com/gdamore/tcell/v2"
)

// ============================================================
// Terminal Viewer
// ============================================================

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [plan.json|plan.svg]\n\nFalls back to PLAN_PATH when no file is given.\n", os.Args[0])
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The screen owns stdout, so logs go to TUI_LOG or nowhere.
	log.SetOutput(io.Discard)
	if cfg.TUILog != "" {
		f, err := os.OpenFile(cfg.TUILog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	path := cfg.PlanPath
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	var plan *models.Plan
	if path != "" {
		plan, err = loader.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	if err := run(cfg, plan, path); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, plan *models.Plan, path string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	app := tui.New(screen, cfg.ViewerOptions())
	if plan != nil {
		app.Load(plan, path)
	}

	log.Printf("[TUI] Started (scale %v, hit mode %s)", cfg.InitialScale, cfg.HitMode)
	app.Run()
	log.Printf("[TUI] Exiting")
	return nil
}
