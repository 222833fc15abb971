package viewer

import (
	"fmt"
	"math"
	"testing"

	"floorplan-viewer/internal/viewer/canvas"
	"floorplan-viewer/internal/viewer/models"
)

// recorder is a Canvas that logs every call.
type recorder struct {
	width, height int
	calls         []string
}

func (r *recorder) Size() (int, int) { return r.width, r.height }

func (r *recorder) Resize(width, height int) {
	r.width, r.height = width, height
	r.calls = append(r.calls, fmt.Sprintf("resize %dx%d", width, height))
}

func (r *recorder) Clear() { r.calls = append(r.calls, "clear") }

func (r *recorder) Line(from, to models.Point, style canvas.Style) {
	r.calls = append(r.calls, fmt.Sprintf("line %s %.3g,%.3g-%.3g,%.3g", style.Color, from.X, from.Y, to.X, to.Y))
}

func (r *recorder) Arc(center models.Point, radius, start, end float64, style canvas.Style) {
	r.calls = append(r.calls, fmt.Sprintf("arc %s %.3g,%.3g r%.3g %.3g-%.3g", style.Color, center.X, center.Y, radius, start, end))
}

func (r *recorder) FillPolygon(points []models.Point, style canvas.Style) {
	r.calls = append(r.calls, fmt.Sprintf("fill %s %d", style.Color, len(points)))
}

func (r *recorder) reset() { r.calls = nil }

func scenarioPlan() *models.Plan {
	return &models.Plan{
		Regions: []models.Region{{Start: models.Point{X: 0, Y: 0}, End: models.Point{X: 5, Y: 0}}},
		Doors:   []models.Door{{Location: models.Point{X: 2, Y: 0}, Width: 1, Rotation: 0}},
		Furnitures: []models.Furniture{{
			MinBound:   models.Point{X: -1, Y: -1},
			MaxBound:   models.Point{X: 1, Y: 1},
			XPlacement: 3,
			YPlacement: 3,
			EquipName:  "Desk",
		}},
	}
}

func unitOptions() Options {
	opts := DefaultOptions()
	opts.InitialScale = 1
	return opts
}

func TestHitTestContainment(t *testing.T) {
	f := models.Furniture{
		MinBound:   models.Point{X: -2, Y: -3},
		MaxBound:   models.Point{X: 2, Y: 3},
		XPlacement: 10,
		YPlacement: 10,
		EquipName:  "F",
	}
	state := models.ViewState{ScaleFactor: 1}

	if _, ok := HitTest(models.Point{X: 10, Y: 10}, state, []models.Furniture{f}, HitBounds); !ok {
		t.Error("(10,10) should hit")
	}
	if _, ok := HitTest(models.Point{X: 13, Y: 10}, state, []models.Furniture{f}, HitBounds); ok {
		t.Error("(13,10) should miss")
	}
}

func TestHitTestUsesInverseTransform(t *testing.T) {
	f := models.Furniture{
		MinBound:   models.Point{X: -1, Y: -1},
		MaxBound:   models.Point{X: 1, Y: 1},
		XPlacement: 10,
		YPlacement: 10,
	}
	state := models.ViewState{ScaleFactor: 4, OffsetX: 100, OffsetY: -20}

	// model (10,10) -> screen (140, 20)
	if _, ok := HitTest(models.Point{X: 140, Y: 20}, state, []models.Furniture{f}, HitBounds); !ok {
		t.Error("expected hit at the transformed centre")
	}
	// model (11.5, 10) -> screen (146, 20)
	if _, ok := HitTest(models.Point{X: 146, Y: 20}, state, []models.Furniture{f}, HitBounds); ok {
		t.Error("expected miss outside the transformed box")
	}
}

func TestHitTestLastMatchWins(t *testing.T) {
	a := models.Furniture{MinBound: models.Point{X: -2, Y: -2}, MaxBound: models.Point{X: 2, Y: 2}, EquipName: "A"}
	b := models.Furniture{MinBound: models.Point{X: -1, Y: -1}, MaxBound: models.Point{X: 1, Y: 1}, XPlacement: 1, EquipName: "B"}
	c := models.Furniture{MinBound: models.Point{X: -1, Y: -1}, MaxBound: models.Point{X: 1, Y: 1}, XPlacement: 50, EquipName: "C"}
	items := []models.Furniture{a, b, c}

	i, ok := HitTest(models.Point{X: 0.5, Y: 0}, models.ViewState{ScaleFactor: 1}, items, HitBounds)
	if !ok || items[i].EquipName != "B" {
		t.Errorf("got index %d ok=%v, want B", i, ok)
	}
}

func TestHitTestRotationModes(t *testing.T) {
	// A long thin item turned a quarter: drawn vertically.
	f := models.Furniture{
		MinBound: models.Point{X: -4, Y: -0.5},
		MaxBound: models.Point{X: 4, Y: 0.5},
		Rotation: math.Pi / 2,
	}
	state := models.ViewState{ScaleFactor: 1}
	onDrawnShape := models.Point{X: 0, Y: 3}
	onUnrotatedBox := models.Point{X: 3, Y: 0}

	if _, ok := HitTest(onDrawnShape, state, []models.Furniture{f}, HitBounds); ok {
		t.Error("bounds mode should ignore rotation and miss the drawn shape")
	}
	if _, ok := HitTest(onUnrotatedBox, state, []models.Furniture{f}, HitBounds); !ok {
		t.Error("bounds mode should hit the unrotated box")
	}
	if _, ok := HitTest(onDrawnShape, state, []models.Furniture{f}, HitRotated); !ok {
		t.Error("rotated mode should hit the drawn shape")
	}
	if _, ok := HitTest(onUnrotatedBox, state, []models.Furniture{f}, HitRotated); ok {
		t.Error("rotated mode should miss the unrotated box")
	}
}

func TestZoomSteps(t *testing.T) {
	v := New(&recorder{}, DefaultOptions())
	scale := v.State().ScaleFactor

	for i := 0; i < 5; i++ {
		v.Zoom(-1)
		got := v.State().ScaleFactor
		if math.Abs(got-scale*1.1) > 1e-9 || got <= scale {
			t.Fatalf("zoom in step %d: %v -> %v", i, scale, got)
		}
		scale = got
	}
	for i := 0; i < 5; i++ {
		v.Zoom(3)
		got := v.State().ScaleFactor
		if math.Abs(got-scale/1.1) > 1e-9 || got >= scale {
			t.Fatalf("zoom out step %d: %v -> %v", i, scale, got)
		}
		scale = got
	}
	if math.Abs(scale-DefaultInitialScale) > 1e-9 {
		t.Errorf("five in and five out should return to %v, got %v", DefaultInitialScale, scale)
	}
}

func TestZoomZeroDeltaZoomsOut(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	v.Zoom(0)
	if got := v.State().ScaleFactor; math.Abs(got-1/1.1) > 1e-12 {
		t.Errorf("scale = %v, want %v", got, 1/1.1)
	}
}

func TestZoomUnboundedByDefault(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	for i := 0; i < 400; i++ {
		v.Zoom(1)
	}
	got := v.State().ScaleFactor
	if got <= 0 || got > 1e-15 {
		t.Errorf("expected a tiny positive scale, got %v", got)
	}
}

func TestZoomScaleStaysFinite(t *testing.T) {
	opts := DefaultOptions()

	got := ZoomScale(math.MaxFloat64, -1, opts)
	if got != math.MaxFloat64 {
		t.Fatalf("zoom in at max float = %v", got)
	}
	if back := ZoomScale(got, 1, opts); back >= got || math.IsInf(back, 0) {
		t.Errorf("zoom out after the limit = %v", back)
	}

	tiny := math.SmallestNonzeroFloat64
	if got := ZoomScale(tiny, 1, opts); got <= 0 {
		t.Errorf("zoom out at smallest float = %v", got)
	}

	v := New(&recorder{}, opts)
	for i := 0; i < 8000; i++ {
		v.Zoom(-1)
	}
	top := v.State().ScaleFactor
	if math.IsInf(top, 0) {
		t.Fatal("scale overflowed to +Inf")
	}
	v.Zoom(1)
	if got := v.State().ScaleFactor; got >= top {
		t.Errorf("zoom out from %v gave %v", top, got)
	}
}

func TestZoomClamp(t *testing.T) {
	opts := unitOptions()
	opts.MinScale = 0.5
	opts.MaxScale = 2
	v := New(&recorder{}, opts)

	for i := 0; i < 50; i++ {
		v.Zoom(-1)
	}
	if got := v.State().ScaleFactor; got != 2 {
		t.Errorf("max clamp: scale = %v", got)
	}
	for i := 0; i < 50; i++ {
		v.Zoom(1)
	}
	if got := v.State().ScaleFactor; got != 0.5 {
		t.Errorf("min clamp: scale = %v", got)
	}
}

func TestDragKeepsAnchorUnderCursor(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	v.state.OffsetX, v.state.OffsetY = 7, -3
	before := v.State().Offset()

	s0 := models.Point{X: 20, Y: 30}
	s1 := models.Point{X: 55, Y: 12}
	v.BeginDrag(s0)
	v.UpdateDrag(s1)

	want := s1.Sub(s0.Sub(before))
	if got := v.State().Offset(); got != want {
		t.Errorf("offset = %+v, want %+v", got, want)
	}
}

func TestDragModelPointStaysUnderCursor(t *testing.T) {
	v := New(&recorder{}, DefaultOptions())
	v.state.OffsetX = 13

	s0 := models.Point{X: 100, Y: 80}
	s1 := models.Point{X: 40, Y: 200}
	underBefore := s0.Sub(v.State().Offset()).Scale(1 / v.State().ScaleFactor)

	v.OnPointerDown(s0)
	v.OnPointerMove(s1)
	v.OnPointerUp()

	underAfter := s1.Sub(v.State().Offset()).Scale(1 / v.State().ScaleFactor)
	if math.Abs(underAfter.X-underBefore.X) > 1e-9 || math.Abs(underAfter.Y-underBefore.Y) > 1e-9 {
		t.Errorf("model point moved: %+v -> %+v", underBefore, underAfter)
	}
	if v.Drag().Dragging {
		t.Error("drag should end on pointer up")
	}
}

func TestUpdateDragWithoutBeginIsNoop(t *testing.T) {
	rec := &recorder{}
	v := New(rec, unitOptions())
	v.Load(scenarioPlan())
	rec.reset()

	v.UpdateDrag(models.Point{X: 50, Y: 50})
	if got := v.State(); got.OffsetX != 0 || got.OffsetY != 0 {
		t.Errorf("offset moved without drag: %+v", got)
	}
	if len(rec.calls) != 0 {
		t.Errorf("no render expected, got %v", rec.calls)
	}

	v.BeginDrag(models.Point{X: 1, Y: 1})
	v.EndDrag()
	v.UpdateDrag(models.Point{X: 9, Y: 9})
	if got := v.State(); got.OffsetX != 0 || got.OffsetY != 0 {
		t.Errorf("offset moved after EndDrag: %+v", got)
	}
}

func TestPointerMoveRunsHoverWhileDragging(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	v.Load(scenarioPlan())

	v.OnPointerDown(models.Point{X: 0, Y: 0})
	// Drag by (10,0); the desk now spans screen x 12..14.
	v.OnPointerMove(models.Point{X: 10, Y: 0})
	if _, ok := v.Hovered(); ok {
		t.Error("nothing should be under (10,0)")
	}
	v.OnPointerUp()

	v.OnPointerMove(models.Point{X: 13, Y: 3})
	f, ok := v.Hovered()
	if !ok || f.EquipName != "Desk" {
		t.Errorf("hover after pan = %+v, %v", f, ok)
	}
}

func TestEndToEndScenario(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	v.Load(scenarioPlan())

	v.OnPointerMove(models.Point{X: 3, Y: 3})
	f, ok := v.Hovered()
	if !ok || f.EquipName != "Desk" {
		t.Fatalf("hover (3,3) = %+v, %v; want Desk", f, ok)
	}
	tip := v.Tooltip()
	if !tip.Visible || tip.Text != "Desk" || tip.X != 3 || tip.Y != 3 {
		t.Errorf("tooltip = %+v", tip)
	}

	v.OnPointerMove(models.Point{X: 0, Y: 0})
	if f, ok := v.Hovered(); ok {
		t.Errorf("hover (0,0) = %+v, want none", f)
	}
	if tip := v.Tooltip(); tip.Visible {
		t.Errorf("tooltip should be hidden, got %+v", tip)
	}
}

func TestRenderOrderAndTransform(t *testing.T) {
	rec := &recorder{}
	v := New(rec, unitOptions())
	v.state = models.ViewState{ScaleFactor: 2, OffsetX: 10, OffsetY: 20}
	v.Load(scenarioPlan())

	want := []string{
		"clear",
		"line black 10,20-20,20",
		"line blue 13,20-15,20",
		"arc blue 14,20 r1 0-1.57",
		"fill green 4",
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	c := canvas.NewSVGCanvas(80, 60)
	v := New(c, DefaultOptions())
	plan := scenarioPlan()
	plan.Furnitures[0].Rotation = 0.3
	v.Load(plan)

	first := c.String()
	v.Render()
	if second := c.String(); second != first {
		t.Errorf("second render differs:\n%s\n---\n%s", first, second)
	}
}

func TestRenderWithoutPlanClears(t *testing.T) {
	rec := &recorder{}
	v := New(rec, DefaultOptions())
	v.Render()
	if len(rec.calls) != 1 || rec.calls[0] != "clear" {
		t.Errorf("calls = %v", rec.calls)
	}
	if _, ok := v.Hovered(); ok {
		t.Error("nothing can be hovered without a plan")
	}
}

func TestResizeKeepsViewState(t *testing.T) {
	rec := &recorder{width: 10, height: 10}
	v := New(rec, DefaultOptions())
	v.Load(scenarioPlan())
	v.Zoom(-1)
	v.BeginDrag(models.Point{X: 0, Y: 0})
	v.UpdateDrag(models.Point{X: 4, Y: 5})
	v.EndDrag()
	before := v.State()
	rec.reset()

	v.OnResize(300, 200)

	if v.State() != before {
		t.Errorf("state changed on resize: %+v -> %+v", before, v.State())
	}
	if w, h := rec.Size(); w != 300 || h != 200 {
		t.Errorf("canvas size = %dx%d", w, h)
	}
	if len(rec.calls) < 2 || rec.calls[0] != "resize 300x200" || rec.calls[1] != "clear" {
		t.Errorf("expected resize then redraw, got %v", rec.calls)
	}
}

func TestReset(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	v.Load(scenarioPlan())
	v.Zoom(-1)
	v.BeginDrag(models.Point{X: 0, Y: 0})
	v.UpdateDrag(models.Point{X: 30, Y: 30})

	v.Reset()
	if got := v.State(); got != (models.ViewState{ScaleFactor: 1}) {
		t.Errorf("state after reset = %+v", got)
	}
	if v.Drag().Dragging {
		t.Error("reset should cancel the drag")
	}
}

func TestLoadClearsHover(t *testing.T) {
	v := New(&recorder{}, unitOptions())
	v.Load(scenarioPlan())
	v.OnPointerMove(models.Point{X: 3, Y: 3})
	if _, ok := v.Hovered(); !ok {
		t.Fatal("expected hover before reload")
	}

	v.Load(&models.Plan{})
	if _, ok := v.Hovered(); ok {
		t.Error("hover should be cleared by Load")
	}
}

func TestParseHitMode(t *testing.T) {
	tests := []struct {
		in      string
		want    HitMode
		wantErr bool
	}{
		{"", HitBounds, false},
		{"bounds", HitBounds, false},
		{"rotated", HitRotated, false},
		{"circle", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHitMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseHitMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
