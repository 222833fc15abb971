// Package tui hosts the viewer in a terminal. Each character cell is one
// screen pixel; the bottom row is a status line.
package tui

import (
	"fmt"
	"log"

	"floorplan-viewer/internal/viewer"
	"floorplan-viewer/internal/viewer/canvas"
	"floorplan-viewer/internal/viewer/models"

	"github.com/gdamore/tcell/v2"
)

// ============================================================
// App
// ============================================================

var (
	planStyle    = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	statusStyle  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	tooltipStyle = tcell.StyleDefault.Background(tcell.ColorLightYellow).Foreground(tcell.ColorBlack)
)

type App struct {
	screen  tcell.Screen
	canvas  *canvas.CellCanvas
	viewer  *viewer.Viewer
	source  string
	pressed bool
}

// New sizes the canvas to the screen minus the status line. The screen
// must already be initialised.
func New(screen tcell.Screen, opts viewer.Options) *App {
	w, h := screen.Size()
	c := canvas.NewCellCanvas(w, planHeight(h))
	return &App{
		screen: screen,
		canvas: c,
		viewer: viewer.New(c, opts),
	}
}

func planHeight(screenHeight int) int {
	if screenHeight <= 1 {
		return 0
	}
	return screenHeight - 1
}

// Load shows plan; source is displayed in the status line.
func (a *App) Load(plan *models.Plan, source string) {
	a.source = source
	a.viewer.Load(plan)
	log.Printf("[TUI] Loaded %s: %d regions, %d doors, %d furniture",
		source, len(plan.Regions), len(plan.Doors), len(plan.Furnitures))
}

func (a *App) Viewer() *viewer.Viewer {
	return a.viewer
}

// Run polls events until the user quits or the screen is finalised.
func (a *App) Run() {
	a.viewer.Render()
	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if a.HandleEvent(ev) {
			return
		}
		a.Draw()
	}
}

// HandleEvent applies one terminal event and reports whether to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		a.viewer.OnResize(w, planHeight(h))
		a.screen.Sync()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 'r', 'R':
				a.viewer.Reset()
			}
		}

	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := models.Point{X: float64(x), Y: float64(y)}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.viewer.OnWheel(-1)
		return
	case buttons&tcell.WheelDown != 0:
		a.viewer.OnWheel(1)
		return
	}

	down := buttons&tcell.Button1 != 0
	if down && !a.pressed {
		a.pressed = true
		a.viewer.OnPointerDown(p)
	}
	a.viewer.OnPointerMove(p)
	if !down && a.pressed {
		a.pressed = false
		a.viewer.OnPointerUp()
	}
}

// ============================================================
// Drawing
// ============================================================

// Draw copies the canvas to the screen, then the tooltip and status line.
func (a *App) Draw() {
	a.screen.Clear()

	w, h := a.canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := a.canvas.Get(x, y)
			style := planStyle
			if cell.Color != "" {
				style = style.Foreground(tcell.GetColor(cell.Color))
			}
			a.screen.SetContent(x, y, cell.Glyph, nil, style)
		}
	}

	if tip := a.viewer.Tooltip(); tip.Visible {
		a.drawTooltip(tip, w, h)
	}
	a.drawStatus()
	a.screen.Show()
}

// drawTooltip puts the label one row below the pointer, shifted left when
// it would run off the right edge.
func (a *App) drawTooltip(tip models.Tooltip, w, h int) {
	label := " " + tip.Text + " "
	x := int(tip.X) + 1
	y := int(tip.Y) + 1
	if y >= h {
		y = int(tip.Y) - 1
	}
	if x+len([]rune(label)) > w {
		x = w - len([]rune(label))
	}
	if x < 0 {
		x = 0
	}
	a.putString(x, y, label, tooltipStyle)
}

func (a *App) drawStatus() {
	w, h := a.screen.Size()
	if h == 0 {
		return
	}
	y := h - 1
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, statusStyle)
	}

	state := a.viewer.State()
	source := a.source
	if source == "" {
		source = "no plan"
	}
	status := fmt.Sprintf(" %s | scale %.3g | offset %.0f,%.0f | hit %s | drag: mouse  zoom: wheel  r: reset  q: quit",
		source, state.ScaleFactor, state.OffsetX, state.OffsetY, a.viewer.Options().HitMode)
	a.putString(0, y, status, statusStyle)
}

func (a *App) putString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
