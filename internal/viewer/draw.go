package viewer

import (
	"floorplan-viewer/internal/viewer/canvas"
	"floorplan-viewer/internal/viewer/geometry"
	"floorplan-viewer/internal/viewer/models"
)

// Glyphs used when the canvas is a character grid.
const (
	glyphWall      = '#'
	glyphDoor      = '='
	glyphSwing     = '.'
	glyphFurniture = '%'
)

// Draw paints plan onto c through the view transform. Order matters:
// walls, then doors, then furniture on top. Lines are one plan unit wide.
func Draw(c canvas.Canvas, plan *models.Plan, state models.ViewState) {
	width := state.ScaleFactor
	screen := func(p models.Point) models.Point {
		return geometry.ModelToScreen(state, p)
	}

	wall := canvas.Style{Color: canvas.ColorWall, Width: width, Glyph: glyphWall}
	for _, r := range plan.Regions {
		c.Line(screen(r.Start), screen(r.End), wall)
	}

	leaf := canvas.Style{Color: canvas.ColorDoor, Width: width, Glyph: glyphDoor}
	swing := canvas.Style{Color: canvas.ColorDoor, Width: width, Glyph: glyphSwing}
	for _, d := range plan.Doors {
		from, to := geometry.DoorLeaf(d)
		c.Line(screen(from), screen(to), leaf)

		arc := geometry.DoorSwing(d)
		c.Arc(screen(arc.Center), arc.Radius*state.ScaleFactor, arc.Start, arc.End, swing)
	}

	fill := canvas.Style{Color: canvas.ColorFurniture, Glyph: glyphFurniture}
	for _, f := range plan.Furnitures {
		corners := geometry.FurnitureCorners(f)
		for i, p := range corners {
			corners[i] = screen(p)
		}
		c.FillPolygon(corners, fill)
	}
}
