package geometry

import (
	"math"

	"floorplan-viewer/internal/viewer/models"
)

// ============================================================
// View transform
// ============================================================

// ModelToScreen applies screen = model*scale + offset.
func ModelToScreen(v models.ViewState, p models.Point) models.Point {
	return p.Scale(v.ScaleFactor).Add(v.Offset())
}

// ScreenToModel is the inverse of ModelToScreen. ScaleFactor must be > 0.
func ScreenToModel(v models.ViewState, p models.Point) models.Point {
	return p.Sub(v.Offset()).Scale(1 / v.ScaleFactor)
}

// ============================================================
// Rectangles
// ============================================================

type Rect struct {
	Min models.Point
	Max models.Point
}

// Contains is inclusive on every edge.
func (r Rect) Contains(p models.Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// FurnitureBounds returns the unrotated box centred on the placement.
func FurnitureBounds(f models.Furniture) Rect {
	halfW := f.Width() / 2
	halfH := f.Height() / 2
	return Rect{
		Min: models.Point{X: f.XPlacement - halfW, Y: f.YPlacement - halfH},
		Max: models.Point{X: f.XPlacement + halfW, Y: f.YPlacement + halfH},
	}
}

// FurnitureCorners returns the drawn rectangle: the bounds rotated by
// f.Rotation about the placement, clockwise from the top-left corner.
func FurnitureCorners(f models.Furniture) []models.Point {
	b := FurnitureBounds(f)
	points := []models.Point{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}

	if f.Rotation == 0 {
		return points
	}

	c := f.Center()
	for i, p := range points {
		points[i] = rotateAbout(p, c, f.Rotation)
	}
	return points
}

// ContainsRotated tests p against the rotated rectangle by moving p into
// the item's local frame.
func ContainsRotated(f models.Furniture, p models.Point) bool {
	local := rotateAbout(p, f.Center(), -f.Rotation)
	return FurnitureBounds(f).Contains(local)
}

func rotateAbout(p, c models.Point, rad float64) models.Point {
	sin := math.Sin(rad)
	cos := math.Cos(rad)
	dx := p.X - c.X
	dy := p.Y - c.Y
	return models.Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// ============================================================
// Doors
// ============================================================

// DoorLeaf returns the segment of length Width centred on Location at
// angle Rotation.
func DoorLeaf(d models.Door) (models.Point, models.Point) {
	half := d.Width / 2
	dir := models.Point{X: math.Cos(d.Rotation), Y: math.Sin(d.Rotation)}
	return d.Location.Sub(dir.Scale(half)), d.Location.Add(dir.Scale(half))
}

// Arc is a circular arc from Start to End radians, increasing angle.
type Arc struct {
	Center models.Point
	Radius float64
	Start  float64
	End    float64
}

// DoorSwing is the quarter circle of radius Width/2 starting at Rotation.
func DoorSwing(d models.Door) Arc {
	return Arc{
		Center: d.Location,
		Radius: d.Width / 2,
		Start:  d.Rotation,
		End:    d.Rotation + math.Pi/2,
	}
}
