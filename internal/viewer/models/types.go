package models

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// Geometry primitives
// ============================================================

// Point: координаты в системе плана (model space) или в пикселях экрана.
type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// ============================================================
// Floor plan document
// ============================================================

// Region is a wall segment. On the wire it is a two element array.
type Region struct {
	Start Point
	End   Point
}

func (r Region) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Point{r.Start, r.End})
}

func (r *Region) UnmarshalJSON(data []byte) error {
	var pts []Point
	if err := json.Unmarshal(data, &pts); err != nil {
		return err
	}
	if len(pts) != 2 {
		return fmt.Errorf("region needs 2 points, got %d", len(pts))
	}
	r.Start, r.End = pts[0], pts[1]
	return nil
}

type Door struct {
	Location Point   `json:"Location"`
	Width    float64 `json:"Width"`
	Rotation float64 `json:"Rotation"` // radians
}

// Furniture describes an item by its local (unrotated) bounding box and
// its placement centre in model space.
type Furniture struct {
	MinBound   Point   `json:"MinBound"`
	MaxBound   Point   `json:"MaxBound"`
	XPlacement float64 `json:"xPlacement"`
	YPlacement float64 `json:"yPlacement"`
	Rotation   float64 `json:"rotation"` // radians
	EquipName  string  `json:"equipName"`
}

func (f Furniture) Width() float64 {
	return f.MaxBound.X - f.MinBound.X
}

func (f Furniture) Height() float64 {
	return f.MaxBound.Y - f.MinBound.Y
}

func (f Furniture) Center() Point {
	return Point{X: f.XPlacement, Y: f.YPlacement}
}

// Plan is the loaded document. Revision changes on every load and is not
// part of the input format.
type Plan struct {
	Revision   string      `json:"-"`
	Regions    []Region    `json:"Regions"`
	Doors      []Door      `json:"Doors"`
	Furnitures []Furniture `json:"Furnitures"`
}

// ============================================================
// Interaction state
// ============================================================

// ViewState is the pan/zoom state: screen = model*ScaleFactor + offset.
type ViewState struct {
	ScaleFactor float64 `json:"scaleFactor"`
	OffsetX     float64 `json:"offsetX"`
	OffsetY     float64 `json:"offsetY"`
}

func (v ViewState) Offset() Point {
	return Point{X: v.OffsetX, Y: v.OffsetY}
}

// DragState keeps the anchor in pre-offset pixel space.
type DragState struct {
	Dragging bool  `json:"dragging"`
	Anchor   Point `json:"anchor"`
}

// Tooltip: подпись, которую хост показывает у курсора.
type Tooltip struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text,omitempty"`
}
