// Package canvas provides screen-space drawing surfaces for the viewer.
package canvas

import "floorplan-viewer/internal/viewer/models"

// Colours used by the viewer for each layer.
const (
	ColorWall      = "black"
	ColorDoor      = "blue"
	ColorFurniture = "green"
)

// Style describes how a primitive is painted. Glyph is only used by
// character-cell surfaces.
type Style struct {
	Color string
	Width float64
	Glyph rune
}

// Canvas is a drawing surface in screen coordinates.
//
// Implementations are not safe for concurrent use; the viewer drives a
// canvas from a single goroutine.
type Canvas interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()
	Line(from, to models.Point, style Style)
	// Arc draws from start to end radians with increasing angle, which is
	// clockwise on a y-down screen.
	Arc(center models.Point, radius, start, end float64, style Style)
	FillPolygon(points []models.Point, style Style)
}
