// Package viewer holds the interactive floor-plan viewer: pan/zoom state,
// rendering through the view transform, and pointer hit-testing.
//
// A Viewer is driven from one goroutine at a time. Hosts that receive
// events concurrently serialise them (see service.Host).
package viewer

import (
	"fmt"
	"math"

	"floorplan-viewer/internal/viewer/canvas"
	"floorplan-viewer/internal/viewer/geometry"
	"floorplan-viewer/internal/viewer/models"
)

// ============================================================
// Options
// ============================================================

// HitMode selects how the pointer is tested against furniture.
type HitMode string

const (
	// HitBounds tests the unrotated bounding box even for rotated items.
	// This matches how the plan has always behaved.
	HitBounds HitMode = "bounds"
	// HitRotated tests the rectangle as drawn.
	HitRotated HitMode = "rotated"
)

// ParseHitMode accepts "bounds", "rotated" or "" (bounds).
func ParseHitMode(s string) (HitMode, error) {
	switch HitMode(s) {
	case "", HitBounds:
		return HitBounds, nil
	case HitRotated:
		return HitRotated, nil
	}
	return "", fmt.Errorf("unknown hit mode %q", s)
}

const (
	DefaultInitialScale = 6
	DefaultZoomStep     = 1.1
)

type Options struct {
	InitialScale float64
	ZoomStep     float64
	// MinScale and MaxScale bound zooming when > 0. Zero leaves that side
	// unbounded.
	MinScale float64
	MaxScale float64
	HitMode  HitMode
}

// DefaultOptions mirrors the plain viewer: scale 6, 10% zoom steps, no
// zoom limits, unrotated hit boxes.
func DefaultOptions() Options {
	return Options{
		InitialScale: DefaultInitialScale,
		ZoomStep:     DefaultZoomStep,
		HitMode:      HitBounds,
	}
}

func (o Options) withDefaults() Options {
	if o.InitialScale <= 0 {
		o.InitialScale = DefaultInitialScale
	}
	if o.ZoomStep <= 1 {
		o.ZoomStep = DefaultZoomStep
	}
	if o.HitMode == "" {
		o.HitMode = HitBounds
	}
	return o
}

// ============================================================
// Viewer
// ============================================================

type Viewer struct {
	opts    Options
	canvas  canvas.Canvas
	plan    *models.Plan
	state   models.ViewState
	drag    models.DragState
	pointer models.Point
	hovered int // index into plan.Furnitures, -1 when nothing is hovered
	hasPtr  bool
}

// New creates a viewer that renders onto c.
func New(c canvas.Canvas, opts Options) *Viewer {
	opts = opts.withDefaults()
	return &Viewer{
		opts:    opts,
		canvas:  c,
		state:   models.ViewState{ScaleFactor: opts.InitialScale},
		hovered: -1,
	}
}

// Load replaces the plan and re-renders. The view state is kept so a
// reload does not jump the camera; hover is cleared.
func (v *Viewer) Load(plan *models.Plan) {
	v.plan = plan
	v.hovered = -1
	v.Render()
}

func (v *Viewer) Plan() *models.Plan {
	return v.plan
}

func (v *Viewer) State() models.ViewState {
	return v.state
}

func (v *Viewer) Drag() models.DragState {
	return v.drag
}

func (v *Viewer) Options() Options {
	return v.opts
}

// Render clears the canvas and draws the loaded plan.
func (v *Viewer) Render() {
	v.canvas.Clear()
	if v.plan == nil {
		return
	}
	Draw(v.canvas, v.plan, v.state)
}

// ============================================================
// Drag
// ============================================================

// BeginDrag stores the anchor in pre-offset pixel space.
func (v *Viewer) BeginDrag(screen models.Point) {
	v.drag = models.DragState{Dragging: true, Anchor: screen.Sub(v.state.Offset())}
}

func (v *Viewer) EndDrag() {
	v.drag.Dragging = false
}

// UpdateDrag moves the offset so the anchor stays under the pointer.
// It does nothing unless a drag is in progress.
func (v *Viewer) UpdateDrag(screen models.Point) {
	if !v.drag.Dragging {
		return
	}
	offset := screen.Sub(v.drag.Anchor)
	v.state.OffsetX = offset.X
	v.state.OffsetY = offset.Y
	v.Render()
}

// ============================================================
// Zoom & resize
// ============================================================

// Zoom scales in for deltaY < 0 and out otherwise. The origin of screen
// space stays fixed; only the scale changes.
func (v *Viewer) Zoom(deltaY float64) {
	v.state.ScaleFactor = ZoomScale(v.state.ScaleFactor, deltaY, v.opts)
	v.Render()
}

// ZoomScale returns the scale after one wheel step. A step that would
// overflow to +Inf or underflow to 0 leaves the scale unchanged.
func ZoomScale(scale, deltaY float64, opts Options) float64 {
	opts = opts.withDefaults()
	prev := scale
	if deltaY < 0 {
		scale *= opts.ZoomStep
	} else {
		scale /= opts.ZoomStep
	}
	if math.IsInf(scale, 0) || scale <= 0 {
		scale = prev
	}

	if opts.MaxScale > 0 {
		scale = math.Min(scale, opts.MaxScale)
	}
	if opts.MinScale > 0 {
		scale = math.Max(scale, opts.MinScale)
	}
	return scale
}

// Resize changes the canvas size and redraws. Pan and zoom are untouched.
func (v *Viewer) Resize(width, height int) {
	v.canvas.Resize(width, height)
	v.Render()
}

// Reset returns to the initial scale with no pan.
func (v *Viewer) Reset() {
	v.state = models.ViewState{ScaleFactor: v.opts.InitialScale}
	v.drag = models.DragState{}
	v.refreshHover()
	v.Render()
}

// ============================================================
// Hit testing
// ============================================================

// HitTest maps screen to model space and returns the index of the last
// item whose box contains the point. Later items are drawn on top, so the
// last match wins.
func HitTest(screen models.Point, state models.ViewState, items []models.Furniture, mode HitMode) (int, bool) {
	p := geometry.ScreenToModel(state, screen)

	hit := -1
	for i, f := range items {
		var inside bool
		if mode == HitRotated {
			inside = geometry.ContainsRotated(f, p)
		} else {
			inside = geometry.FurnitureBounds(f).Contains(p)
		}
		if inside {
			hit = i
		}
	}
	return hit, hit >= 0
}

// Hovered returns the furniture under the pointer, if any.
func (v *Viewer) Hovered() (models.Furniture, bool) {
	if v.plan == nil || v.hovered < 0 || v.hovered >= len(v.plan.Furnitures) {
		return models.Furniture{}, false
	}
	return v.plan.Furnitures[v.hovered], true
}

// Tooltip describes the label for the hovered item, positioned at the
// pointer. It is hidden when nothing is hovered.
func (v *Viewer) Tooltip() models.Tooltip {
	f, ok := v.Hovered()
	if !ok {
		return models.Tooltip{}
	}
	return models.Tooltip{Visible: true, X: v.pointer.X, Y: v.pointer.Y, Text: f.EquipName}
}

func (v *Viewer) refreshHover() {
	v.hovered = -1
	if v.plan == nil || !v.hasPtr {
		return
	}
	if i, ok := HitTest(v.pointer, v.state, v.plan.Furnitures, v.opts.HitMode); ok {
		v.hovered = i
	}
}

// ============================================================
// Host events
// ============================================================

func (v *Viewer) OnPointerDown(screen models.Point) {
	v.BeginDrag(screen)
}

// OnPointerMove pans while dragging and always updates the hover result.
func (v *Viewer) OnPointerMove(screen models.Point) {
	v.UpdateDrag(screen)
	v.pointer = screen
	v.hasPtr = true
	v.refreshHover()
}

func (v *Viewer) OnPointerUp() {
	v.EndDrag()
}

// OnWheel zooms. Hover is not re-evaluated until the pointer moves again.
func (v *Viewer) OnWheel(deltaY float64) {
	v.Zoom(deltaY)
}

func (v *Viewer) OnResize(width, height int) {
	v.Resize(width, height)
}
