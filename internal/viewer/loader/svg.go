package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"floorplan-viewer/internal/viewer/models"

	"github.com/google/uuid"
)

// ============================================================
// SVG Import
// ============================================================

const (
	kindWall      = "wall"
	kindDoor      = "door"
	kindFurniture = "furniture"
)

// svgShape is a rect or path element reduced to its bounding box.
type svgShape struct {
	ID   string
	Kind string
	Name string
	Min  models.Point
	Max  models.Point
}

func (s svgShape) width() float64  { return s.Max.X - s.Min.X }
func (s svgShape) height() float64 { return s.Max.Y - s.Min.Y }

func (s svgShape) center() models.Point {
	return models.Point{X: (s.Min.X + s.Max.X) / 2, Y: (s.Min.Y + s.Max.Y) / 2}
}

// ImportSVG converts a floor-plan SVG drawing into a plan. Elements are
// classified by id prefix: Wall_* become regions along the long axis,
// Door_* become doors, Furniture_* and Item_* become furniture. Other
// elements are ignored. Groups are searched recursively.
func ImportSVG(r io.Reader) (*models.Plan, error) {
	shapes, err := parseShapes(r)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		Regions:    []models.Region{},
		Doors:      []models.Door{},
		Furnitures: []models.Furniture{},
	}

	for _, s := range shapes {
		switch s.Kind {
		case kindWall:
			plan.Regions = append(plan.Regions, wallRegion(s))
		case kindDoor:
			plan.Doors = append(plan.Doors, doorFromShape(s))
		case kindFurniture:
			plan.Furnitures = append(plan.Furnitures, furnitureFromShape(s))
		}
	}

	plan.Revision = uuid.NewString()
	return plan, nil
}

func parseShapes(r io.Reader) ([]svgShape, error) {
	decoder := xml.NewDecoder(r)
	var shapes []svgShape
	sawRoot := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Reason: fmt.Sprintf("invalid SVG: %v", err)}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "svg" {
				return nil, &LoadError{Reason: fmt.Sprintf("root element is <%s>, want <svg>", start.Name.Local)}
			}
			sawRoot = true
			continue
		}

		attrs := attrMap(start.Attr)
		kind := classifyElementByID(attrs["id"])
		if kind == "" {
			continue
		}

		shape, err := shapeFromElement(start.Name.Local, attrs)
		if err != nil {
			return nil, err
		}
		if shape == nil {
			continue
		}
		shape.Kind = kind
		shapes = append(shapes, *shape)
	}

	if !sawRoot {
		return nil, &LoadError{Reason: "empty SVG document"}
	}
	return shapes, nil
}

func shapeFromElement(tag string, attrs map[string]string) (*svgShape, error) {
	id := attrs["id"]
	shape := &svgShape{ID: id, Name: attrs["data-name"]}

	switch tag {
	case "rect":
		var vals [4]float64
		for i, key := range []string{"x", "y", "width", "height"} {
			raw, ok := attrs[key]
			if !ok && (key == "x" || key == "y") {
				continue // SVG defaults x and y to 0
			}
			v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
			if err != nil {
				return nil, &LoadError{Field: id + "." + key, Reason: fmt.Sprintf("invalid number %q", raw)}
			}
			vals[i] = v
		}
		if vals[2] < 0 || vals[3] < 0 {
			return nil, &LoadError{Field: id, Reason: "negative rect size"}
		}
		shape.Min = models.Point{X: vals[0], Y: vals[1]}
		shape.Max = models.Point{X: vals[0] + vals[2], Y: vals[1] + vals[3]}

	case "path":
		points, err := ParsePath(attrs["d"])
		if err != nil {
			return nil, &LoadError{Field: id + ".d", Reason: err.Error()}
		}
		shape.Min, shape.Max = boundingBox(points)

	default:
		return nil, nil
	}

	return shape, nil
}

func classifyElementByID(id string) string {
	switch {
	case strings.HasPrefix(id, "Wall_"):
		return kindWall
	case strings.HasPrefix(id, "Door_"):
		return kindDoor
	case strings.HasPrefix(id, "Furniture_"), strings.HasPrefix(id, "Item_"):
		return kindFurniture
	}
	return ""
}

// ============================================================
// Shape conversion
// ============================================================

// wallRegion reduces a wall outline to the centre line of its long side.
func wallRegion(s svgShape) models.Region {
	c := s.center()
	if s.width() >= s.height() {
		return models.Region{
			Start: models.Point{X: s.Min.X, Y: c.Y},
			End:   models.Point{X: s.Max.X, Y: c.Y},
		}
	}
	return models.Region{
		Start: models.Point{X: c.X, Y: s.Min.Y},
		End:   models.Point{X: c.X, Y: s.Max.Y},
	}
}

func doorFromShape(s svgShape) models.Door {
	if s.width() >= s.height() {
		return models.Door{Location: s.center(), Width: s.width(), Rotation: 0}
	}
	return models.Door{Location: s.center(), Width: s.height(), Rotation: math.Pi / 2}
}

func furnitureFromShape(s svgShape) models.Furniture {
	halfW, halfH := s.width()/2, s.height()/2
	c := s.center()

	name := s.Name
	if name == "" {
		name = s.ID[strings.Index(s.ID, "_")+1:]
		name = strings.ReplaceAll(name, "_", " ")
	}

	return models.Furniture{
		MinBound:   models.Point{X: -halfW, Y: -halfH},
		MaxBound:   models.Point{X: halfW, Y: halfH},
		XPlacement: c.X,
		YPlacement: c.Y,
		EquipName:  name,
	}
}

func boundingBox(points []models.Point) (models.Point, models.Point) {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

func attrMap(attrs []xml.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		key := a.Name.Local
		if a.Name.Space != "" && a.Name.Space != "http://www.w3.org/2000/svg" {
			// keep data-* and plain attributes only
			continue
		}
		out[key] = a.Value
	}
	return out
}
