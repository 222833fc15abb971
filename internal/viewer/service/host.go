package service

import (
	"log"
	"sync"

	"floorplan-viewer/internal/viewer"
	"floorplan-viewer/internal/viewer/canvas"
	"floorplan-viewer/internal/viewer/models"
)

// ============================================================
// Viewer Host
// ============================================================

// Snapshot is what a client sees after an event.
type Snapshot struct {
	Revision string            `json:"revision,omitempty"`
	View     models.ViewState  `json:"view"`
	Dragging bool              `json:"dragging"`
	Hovered  *models.Furniture `json:"hovered"`
	Tooltip  models.Tooltip    `json:"tooltip"`
	Canvas   map[string]int    `json:"canvas"`
}

// Host owns the single viewer instance of the HTTP service. Requests arrive
// on many goroutines; the mutex plays the part of the UI thread.
type Host struct {
	mu     sync.Mutex
	canvas *canvas.SVGCanvas
	viewer *viewer.Viewer
}

func NewHost(opts viewer.Options, width, height int) *Host {
	c := canvas.NewSVGCanvas(width, height)
	v := viewer.New(c, opts)
	v.Render()
	return &Host{canvas: c, viewer: v}
}

// Load replaces the plan. The previous plan, if any, is dropped.
func (h *Host) Load(plan *models.Plan) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.viewer.Load(plan)
	log.Printf("[VIEWER] Loaded plan %s: %d regions, %d doors, %d furniture",
		plan.Revision, len(plan.Regions), len(plan.Doors), len(plan.Furnitures))
	return h.snapshot()
}

// Plan returns the loaded plan, or false before the first load.
func (h *Host) Plan() (*models.Plan, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.viewer.Plan()
	return p, p != nil
}

// Frame returns the last rendered frame as an SVG document.
func (h *Host) Frame() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.canvas.String()
}

func (h *Host) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.snapshot()
}

func (h *Host) Hovered() (models.Furniture, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.viewer.Hovered()
}

func (h *Host) PointerDown(p models.Point) Snapshot {
	return h.apply(func(v *viewer.Viewer) { v.OnPointerDown(p) })
}

func (h *Host) PointerMove(p models.Point) Snapshot {
	return h.apply(func(v *viewer.Viewer) { v.OnPointerMove(p) })
}

func (h *Host) PointerUp() Snapshot {
	return h.apply(func(v *viewer.Viewer) { v.OnPointerUp() })
}

func (h *Host) Wheel(deltaY float64) Snapshot {
	return h.apply(func(v *viewer.Viewer) { v.OnWheel(deltaY) })
}

func (h *Host) Resize(width, height int) Snapshot {
	return h.apply(func(v *viewer.Viewer) { v.OnResize(width, height) })
}

func (h *Host) Reset() Snapshot {
	return h.apply(func(v *viewer.Viewer) { v.Reset() })
}

func (h *Host) apply(event func(v *viewer.Viewer)) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	event(h.viewer)
	return h.snapshot()
}

// snapshot must be called with mu held.
func (h *Host) snapshot() Snapshot {
	s := Snapshot{
		View:     h.viewer.State(),
		Dragging: h.viewer.Drag().Dragging,
		Tooltip:  h.viewer.Tooltip(),
	}
	if p := h.viewer.Plan(); p != nil {
		s.Revision = p.Revision
	}
	if f, ok := h.viewer.Hovered(); ok {
		s.Hovered = &f
	}
	w, ht := h.canvas.Size()
	s.Canvas = map[string]int{"width": w, "height": ht}
	return s
}
