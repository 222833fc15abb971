package loader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplan-viewer/internal/viewer/models"
)

// ============================================================
// Path Parser
// ============================================================

var (
	pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

	// A sign or a second dot starts a new number, so "20-5" is 20 and -5.
	pathNumber = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// ParsePath reads the straight-segment subset of SVG path data
// (M, L, H, V, Z in both cases) into a list of points. Repeated
// coordinate pairs after a command are treated as implicit line-tos.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur models.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords, err := parseCoords(match[2])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", cmd, err)
		}

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = models.Point{X: coords[i], Y: coords[i+1]}
				points = append(points, cur)
			}
		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = cur.Add(models.Point{X: coords[i], Y: coords[i+1]})
				points = append(points, cur)
			}
		case "H":
			for _, x := range coords {
				cur.X = x
				points = append(points, cur)
			}
		case "h":
			for _, dx := range coords {
				cur.X += dx
				points = append(points, cur)
			}
		case "V":
			for _, y := range coords {
				cur.Y = y
				points = append(points, cur)
			}
		case "v":
			for _, dy := range coords {
				cur.Y += dy
				points = append(points, cur)
			}
		case "Z", "z":
			if len(points) > 0 {
				cur = points[0]
				points = append(points, cur)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

// parseCoords splits a coordinate list the way SVG path grammar does.
// Anything other than numbers, whitespace and commas is an error.
func parseCoords(s string) ([]float64, error) {
	var coords []float64
	last := 0
	for _, loc := range pathNumber.FindAllStringIndex(s, -1) {
		if gap := strings.Trim(s[last:loc[0]], " \t\r\n,"); gap != "" {
			return nil, fmt.Errorf("unexpected %q in coordinates", gap)
		}
		val, err := strconv.ParseFloat(s[loc[0]:loc[1]], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s[loc[0]:loc[1]], err)
		}
		coords = append(coords, val)
		last = loc[1]
	}
	if gap := strings.Trim(s[last:], " \t\r\n,"); gap != "" {
		return nil, fmt.Errorf("unexpected %q in coordinates", gap)
	}
	return coords, nil
}
