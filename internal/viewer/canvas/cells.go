package canvas

import (
	"math"
	"strings"

	"floorplan-viewer/internal/viewer/models"
)

// ============================================================
// Cell Canvas
// ============================================================

// Cell is one character position of a CellCanvas.
type Cell struct {
	Glyph rune
	Color string
}

// CellCanvas rasterises primitives onto a character grid where one cell
// is one screen pixel. Origin is top-left, y grows downward, and every
// primitive is clipped to the grid.
type CellCanvas struct {
	cells  [][]Cell
	width  int
	height int
}

func NewCellCanvas(width, height int) *CellCanvas {
	c := &CellCanvas{}
	c.Resize(width, height)
	return c
}

func (c *CellCanvas) Size() (int, int) {
	return c.width, c.height
}

// Resize reallocates the grid; content is discarded.
func (c *CellCanvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width = width
	c.height = height
	c.cells = make([][]Cell, height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, width)
	}
	c.Clear()
}

func (c *CellCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.cells[y][x] = Cell{Glyph: ' '}
		}
	}
}

// Get returns the cell at (x, y), or a blank cell when out of bounds.
func (c *CellCanvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Glyph: ' '}
	}
	return c.cells[y][x]
}

// Line draws with Bresenham's algorithm between the rounded endpoints of
// the segment clipped to the grid.
func (c *CellCanvas) Line(from, to models.Point, style Style) {
	from, to, ok := c.clip(from, to)
	if !ok {
		return
	}

	x0, y0 := round(from.X), round(from.Y)
	x1, y1 := round(to.X), round(to.Y)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		c.setClipped(x0, y0, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Arc samples the curve at roughly one step per cell of arc length.
func (c *CellCanvas) Arc(center models.Point, radius, start, end float64, style Style) {
	if radius <= 0 {
		c.plot(center.X, center.Y, style)
		return
	}

	length := radius * math.Abs(end-start)
	steps := int(math.Ceil(length * 2))
	if steps < 1 {
		steps = 1
	}
	// Keep huge zoom levels bounded; the grid is never larger than this.
	if limit := 4 * (c.width + c.height); steps > limit && limit > 0 {
		steps = limit
	}

	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		x := center.X + radius*math.Cos(a)
		y := center.Y + radius*math.Sin(a)
		c.plot(x, y, style)
	}
}

// FillPolygon fills every cell whose centre lies inside the polygon
// (even-odd rule).
func (c *CellCanvas) FillPolygon(points []models.Point, style Style) {
	if len(points) < 3 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	if maxX < 0 || maxY < 0 || minX >= float64(c.width) || minY >= float64(c.height) {
		return
	}

	x0 := int(math.Max(math.Floor(minX), 0))
	x1 := int(math.Min(math.Ceil(maxX), float64(c.width-1)))
	y0 := int(math.Max(math.Floor(minY), 0))
	y1 := int(math.Min(math.Ceil(maxY), float64(c.height-1)))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if insidePolygon(points, float64(x), float64(y)) {
				c.setClipped(x, y, style)
			}
		}
	}

	// Items thinner than a cell would otherwise vanish when zoomed out.
	if maxX-minX < 1 || maxY-minY < 1 {
		c.plot((minX+maxX)/2, (minY+maxY)/2, style)
	}
}

// String returns the glyphs row by row, separated by newlines.
func (c *CellCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.cells[y][x].Glyph)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// ============================================================
// Helpers
// ============================================================

func (c *CellCanvas) setClipped(x, y int, style Style) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	glyph := style.Glyph
	if glyph == 0 {
		glyph = '*'
	}
	c.cells[y][x] = Cell{Glyph: glyph, Color: style.Color}
}

// plot checks bounds before rounding so far-off coordinates never reach
// an int conversion.
func (c *CellCanvas) plot(x, y float64, style Style) {
	if x < -0.5 || y < -0.5 || x >= float64(c.width)-0.5 || y >= float64(c.height)-0.5 {
		return
	}
	c.setClipped(round(x), round(y), style)
}

// clip trims the segment to the grid rectangle (Liang-Barsky).
func (c *CellCanvas) clip(p0, p1 models.Point) (models.Point, models.Point, bool) {
	if c.width == 0 || c.height == 0 {
		return p0, p1, false
	}

	xmin, ymin := -0.5, -0.5
	xmax, ymax := float64(c.width)-0.5, float64(c.height)-0.5

	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, p0.X - xmin},
		{dx, xmax - p0.X},
		{-dy, p0.Y - ymin},
		{dy, ymax - p0.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return p0, p1, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return p0, p1, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return p0, p1, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	a := models.Point{X: p0.X + t0*dx, Y: p0.Y + t0*dy}
	b := models.Point{X: p0.X + t1*dx, Y: p0.Y + t1*dy}
	return a, b, true
}

func insidePolygon(points []models.Point, x, y float64) bool {
	inside := false
	j := len(points) - 1
	for i := range points {
		pi, pj := points[i], points[j]
		if (pi.Y > y) != (pj.Y > y) {
			xCross := pi.X + (y-pi.Y)*(pj.X-pi.X)/(pj.Y-pi.Y)
			if x < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func round(v float64) int {
	return int(math.Round(v))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
