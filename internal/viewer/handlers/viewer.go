package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"floorplan-viewer/internal/viewer/loader"
	"floorplan-viewer/internal/viewer/models"
	"floorplan-viewer/internal/viewer/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Viewer Handler
// ============================================================

type ViewerHandler struct {
	host *service.Host
}

func NewViewerHandler(host *service.Host) *ViewerHandler {
	return &ViewerHandler{host: host}
}

// Routes mounts the viewer API on r (normally the /api/v1 group).
func (h *ViewerHandler) Routes(r fiber.Router) {
	r.Post("/plan", h.LoadPlan)
	r.Get("/plan", h.GetPlan)
	r.Get("/render", h.Render)
	r.Get("/view", h.View)
	r.Get("/hovered", h.Hovered)

	r.Post("/pointer/down", h.PointerDown)
	r.Post("/pointer/move", h.PointerMove)
	r.Post("/pointer/up", h.PointerUp)
	r.Post("/wheel", h.Wheel)
	r.Post("/resize", h.Resize)
	r.Post("/reset", h.Reset)
}

// ErrorHandler renders errors returned by handlers as {"error": ...}.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("[VIEWER] Unhandled error: %v", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

type pointerRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wheelRequest struct {
	DeltaY *float64 `json:"deltaY"`
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type planResponse struct {
	Revision string       `json:"revision"`
	Plan     *models.Plan `json:"plan"`
}

// ============================================================
// Plan
// ============================================================

// LoadPlan принимает план как JSON тело или multipart файл (.json/.svg).
func (h *ViewerHandler) LoadPlan(c fiber.Ctx) error {
	log.Printf("[VIEWER] Load request, Content-Type: %s, Content-Length: %d", c.Get("Content-Type"), len(c.Body()))

	var (
		plan *models.Plan
		err  error
	)

	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		plan, err = planFromForm(c)
	} else {
		if len(c.Body()) == 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
		}
		plan, err = decodePlan(bytes.NewReader(c.Body()), isSVG(c.Get("Content-Type"), ""))
	}

	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		if errors.Is(err, loader.ErrMalformed) {
			log.Printf("[VIEWER] Rejected plan: %v", err)
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("[VIEWER] Load error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load plan"})
	}

	return c.JSON(h.host.Load(plan))
}

func planFromForm(c fiber.Ctx) (*models.Plan, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "file required in multipart/form-data")
	}
	log.Printf("[VIEWER] File received: %s, size: %d", file.Filename, file.Size)

	f, err := file.Open()
	if err != nil {
		return nil, fiber.NewError(http.StatusInternalServerError, "failed to open file")
	}
	defer f.Close()

	return decodePlan(f, isSVG(file.Header.Get("Content-Type"), file.Filename))
}

func decodePlan(r io.Reader, svg bool) (*models.Plan, error) {
	if svg {
		return loader.ImportSVG(r)
	}
	return loader.Decode(r)
}

func isSVG(contentType, filename string) bool {
	if strings.Contains(contentType, "svg") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".svg")
}

func (h *ViewerHandler) GetPlan(c fiber.Ctx) error {
	plan, ok := h.host.Plan()
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no plan loaded"})
	}
	return c.JSON(planResponse{Revision: plan.Revision, Plan: plan})
}

// ============================================================
// Frame & state
// ============================================================

// Render отдаёт текущий кадр как SVG.
func (h *ViewerHandler) Render(c fiber.Ctx) error {
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(h.host.Frame())
}

func (h *ViewerHandler) View(c fiber.Ctx) error {
	return c.JSON(h.host.Snapshot())
}

// Hovered returns 204 when the pointer is over nothing.
func (h *ViewerHandler) Hovered(c fiber.Ctx) error {
	f, ok := h.host.Hovered()
	if !ok {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(f)
}

// ============================================================
// Events
// ============================================================

func (h *ViewerHandler) PointerDown(c fiber.Ctx) error {
	p, err := parsePoint(c)
	if err != nil {
		return err
	}
	return c.JSON(h.host.PointerDown(p))
}

func (h *ViewerHandler) PointerMove(c fiber.Ctx) error {
	p, err := parsePoint(c)
	if err != nil {
		return err
	}
	return c.JSON(h.host.PointerMove(p))
}

func (h *ViewerHandler) PointerUp(c fiber.Ctx) error {
	return c.JSON(h.host.PointerUp())
}

func (h *ViewerHandler) Wheel(c fiber.Ctx) error {
	var req wheelRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.DeltaY == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "deltaY required"})
	}
	return c.JSON(h.host.Wheel(*req.DeltaY))
}

func (h *ViewerHandler) Resize(c fiber.Ctx) error {
	var req resizeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Width <= 0 || req.Height <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "width and height must be positive"})
	}
	return c.JSON(h.host.Resize(req.Width, req.Height))
}

func (h *ViewerHandler) Reset(c fiber.Ctx) error {
	return c.JSON(h.host.Reset())
}

// parsePoint reads {"x":..,"y":..}. Failures are 400 *fiber.Error values
// rendered by ErrorHandler.
func parsePoint(c fiber.Ctx) (models.Point, error) {
	var req pointerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.X == nil || req.Y == nil {
		return models.Point{}, fiber.NewError(http.StatusBadRequest, "x and y required")
	}
	return models.Point{X: *req.X, Y: *req.Y}, nil
}
