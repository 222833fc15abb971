package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"floorplan-viewer/internal/viewer/models"

	"github.com/google/uuid"
)

// ============================================================
// Errors
// ============================================================

// ErrMalformed is wrapped by every LoadError.
var ErrMalformed = errors.New("malformed floor plan")

// LoadError reports a structural problem in the input document. Field is
// the JSON path of the offending value, e.g. "Doors[1].Width".
type LoadError struct {
	Field  string
	Reason string
}

func (e *LoadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("load plan: %s", e.Reason)
	}
	return fmt.Sprintf("load plan: %s: %s", e.Field, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return ErrMalformed
}

func missing(field string) error {
	return &LoadError{Field: field, Reason: "missing"}
}

// ============================================================
// Wire format
// ============================================================

// Pointer fields tell a missing key apart from a zero value.
type wirePoint struct {
	X *float64 `json:"X"`
	Y *float64 `json:"Y"`
}

type wireDoor struct {
	Location *wirePoint `json:"Location"`
	Width    *float64   `json:"Width"`
	Rotation *float64   `json:"Rotation"`
}

type wireFurniture struct {
	MinBound   *wirePoint `json:"MinBound"`
	MaxBound   *wirePoint `json:"MaxBound"`
	XPlacement *float64   `json:"xPlacement"`
	YPlacement *float64   `json:"yPlacement"`
	Rotation   *float64   `json:"rotation"`
	EquipName  *string    `json:"equipName"`
}

type wirePlan struct {
	Regions    *[][]wirePoint   `json:"Regions"`
	Doors      *[]wireDoor      `json:"Doors"`
	Furnitures *[]wireFurniture `json:"Furnitures"`
}

// ============================================================
// Decoding
// ============================================================

// Decode reads a JSON floor plan and validates its structure. Any missing
// or malformed field fails the whole load with a *LoadError.
func Decode(r io.Reader) (*models.Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	// Unmarshal rejects trailing data after the document.
	var wire wirePlan
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &LoadError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if wire.Regions == nil {
		return nil, missing("Regions")
	}
	if wire.Doors == nil {
		return nil, missing("Doors")
	}
	if wire.Furnitures == nil {
		return nil, missing("Furnitures")
	}

	plan := &models.Plan{
		Regions:    make([]models.Region, 0, len(*wire.Regions)),
		Doors:      make([]models.Door, 0, len(*wire.Doors)),
		Furnitures: make([]models.Furniture, 0, len(*wire.Furnitures)),
	}

	for i, raw := range *wire.Regions {
		field := fmt.Sprintf("Regions[%d]", i)
		if len(raw) != 2 {
			return nil, &LoadError{Field: field, Reason: fmt.Sprintf("want 2 points, got %d", len(raw))}
		}
		start, err := point(&raw[0], field+"[0]")
		if err != nil {
			return nil, err
		}
		end, err := point(&raw[1], field+"[1]")
		if err != nil {
			return nil, err
		}
		plan.Regions = append(plan.Regions, models.Region{Start: start, End: end})
	}

	for i, raw := range *wire.Doors {
		door, err := decodeDoor(raw, fmt.Sprintf("Doors[%d]", i))
		if err != nil {
			return nil, err
		}
		plan.Doors = append(plan.Doors, door)
	}

	for i, raw := range *wire.Furnitures {
		item, err := decodeFurniture(raw, fmt.Sprintf("Furnitures[%d]", i))
		if err != nil {
			return nil, err
		}
		plan.Furnitures = append(plan.Furnitures, item)
	}

	plan.Revision = uuid.NewString()
	return plan, nil
}

// LoadFile reads a plan from disk; ".svg" files go through ImportSVG,
// everything else is treated as JSON.
func LoadFile(path string) (*models.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return ImportSVG(f)
	}
	return Decode(f)
}

func decodeDoor(raw wireDoor, field string) (models.Door, error) {
	if raw.Location == nil {
		return models.Door{}, missing(field + ".Location")
	}
	loc, err := point(raw.Location, field+".Location")
	if err != nil {
		return models.Door{}, err
	}
	if raw.Width == nil {
		return models.Door{}, missing(field + ".Width")
	}
	if *raw.Width < 0 {
		return models.Door{}, &LoadError{Field: field + ".Width", Reason: "must not be negative"}
	}
	if raw.Rotation == nil {
		return models.Door{}, missing(field + ".Rotation")
	}

	return models.Door{Location: loc, Width: *raw.Width, Rotation: *raw.Rotation}, nil
}

func decodeFurniture(raw wireFurniture, field string) (models.Furniture, error) {
	if raw.MinBound == nil {
		return models.Furniture{}, missing(field + ".MinBound")
	}
	minB, err := point(raw.MinBound, field+".MinBound")
	if err != nil {
		return models.Furniture{}, err
	}
	if raw.MaxBound == nil {
		return models.Furniture{}, missing(field + ".MaxBound")
	}
	maxB, err := point(raw.MaxBound, field+".MaxBound")
	if err != nil {
		return models.Furniture{}, err
	}
	if maxB.X < minB.X || maxB.Y < minB.Y {
		return models.Furniture{}, &LoadError{Field: field + ".MaxBound", Reason: "smaller than MinBound"}
	}

	switch {
	case raw.XPlacement == nil:
		return models.Furniture{}, missing(field + ".xPlacement")
	case raw.YPlacement == nil:
		return models.Furniture{}, missing(field + ".yPlacement")
	case raw.Rotation == nil:
		return models.Furniture{}, missing(field + ".rotation")
	case raw.EquipName == nil:
		return models.Furniture{}, missing(field + ".equipName")
	}

	return models.Furniture{
		MinBound:   minB,
		MaxBound:   maxB,
		XPlacement: *raw.XPlacement,
		YPlacement: *raw.YPlacement,
		Rotation:   *raw.Rotation,
		EquipName:  *raw.EquipName,
	}, nil
}

func point(raw *wirePoint, field string) (models.Point, error) {
	if raw.X == nil {
		return models.Point{}, missing(field + ".X")
	}
	if raw.Y == nil {
		return models.Point{}, missing(field + ".Y")
	}
	return models.Point{X: *raw.X, Y: *raw.Y}, nil
}
