package canvas

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"floorplan-viewer/internal/viewer/models"
)

// ============================================================
// SVG Canvas
// ============================================================

// SVGCanvas records primitives as SVG elements; String returns the frame.
type SVGCanvas struct {
	width    int
	height   int
	elements []string
}

func NewSVGCanvas(width, height int) *SVGCanvas {
	return &SVGCanvas{width: width, height: height}
}

func (c *SVGCanvas) Size() (int, int) {
	return c.width, c.height
}

func (c *SVGCanvas) Resize(width, height int) {
	c.width = width
	c.height = height
}

func (c *SVGCanvas) Clear() {
	c.elements = c.elements[:0]
}

func (c *SVGCanvas) Line(from, to models.Point, style Style) {
	c.elements = append(c.elements, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" />`,
		formatFloat(from.X), formatFloat(from.Y), formatFloat(to.X), formatFloat(to.Y), style.Color, formatFloat(style.Width)))
}

func (c *SVGCanvas) Arc(center models.Point, radius, start, end float64, style Style) {
	from := models.Point{X: center.X + radius*math.Cos(start), Y: center.Y + radius*math.Sin(start)}
	to := models.Point{X: center.X + radius*math.Cos(end), Y: center.Y + radius*math.Sin(end)}

	largeArc := 0
	if end-start > math.Pi {
		largeArc = 1
	}

	c.elements = append(c.elements, fmt.Sprintf(`<path d="M %s A %s %s 0 %d 1 %s" fill="none" stroke="%s" stroke-width="%s" />`,
		formatPoint(from), formatFloat(radius), formatFloat(radius), largeArc, formatPoint(to), style.Color, formatFloat(style.Width)))
}

func (c *SVGCanvas) FillPolygon(points []models.Point, style Style) {
	if len(points) < 3 {
		return
	}

	var path strings.Builder
	path.WriteString(`<path d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(` Z" fill="`)
	path.WriteString(style.Color)
	path.WriteString(`" />`)

	c.elements = append(c.elements, path.String())
}

// Elements returns the recorded elements in paint order.
func (c *SVGCanvas) Elements() []string {
	out := make([]string, len(c.elements))
	copy(out, c.elements)
	return out
}

// String собирает SVG документ текущего кадра.
func (c *SVGCanvas) String() string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		c.width, c.height, c.width, c.height))
	builder.WriteString("\n")

	for _, elem := range c.elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// ============================================================
// Formatting helpers
// ============================================================

// formatFloat keeps six decimals; finer detail is invisible at pixel scale.
func formatFloat(val float64) string {
	val = math.Round(val*1e6) / 1e6
	if val == 0 {
		val = 0 // drop negative zero
	}
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
