package proxy

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// hop-by-hop headers are not copied back to the client.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
	"Content-Length":    true,
}

// Upstream forwards requests to one backend service.
type Upstream struct {
	baseURL string
	client  *http.Client
}

func NewUpstream(baseURL string, timeout time.Duration) *Upstream {
	return &Upstream{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (u *Upstream) BaseURL() string {
	return u.baseURL
}

// Mirror проксирует запрос на тот же путь (с query) у upstream.
func (u *Upstream) Mirror() fiber.Handler {
	return func(c fiber.Ctx) error {
		return u.Forward(c, c.Path())
	}
}

// ProxyTo проксирует запрос на фиксированный путь upstream.
func (u *Upstream) ProxyTo(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return u.Forward(c, path)
	}
}

// Forward проксирует любой метод с учетом multipart/raw. Query string
// запроса сохраняется.
func (u *Upstream) Forward(c fiber.Ctx, path string) error {
	targetURL := u.baseURL + path
	if q := string(c.Request().URI().QueryString()); q != "" {
		targetURL += "?" + q
	}

	log.Printf("[GATEWAY] %s %s -> %s (Content-Type: %s, %d bytes)",
		c.Method(), c.Path(), targetURL, c.Get("Content-Type"), len(c.Body()))

	contentType := c.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return u.sendRaw(c, targetURL, contentType)
	}

	return u.sendMultipart(c, targetURL)
}

// Ping checks that the upstream answers its liveness probe.
func (u *Upstream) Ping() error {
	resp, err := u.client.Get(u.baseURL + "/health/live")
	if err != nil {
		return fmt.Errorf("upstream %s: %w", u.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream %s: status %d", u.baseURL, resp.StatusCode)
	}
	return nil
}

func (u *Upstream) sendRaw(c fiber.Ctx, targetURL, contentType string) error {
	var body io.Reader
	if len(c.Body()) > 0 {
		body = bytes.NewReader(c.Body())
	}
	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		log.Printf("[GATEWAY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	copyRequestHeaders(c, req)

	return u.do(c, req)
}

func (u *Upstream) sendMultipart(c fiber.Ctx, targetURL string) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("[GATEWAY] Failed to parse multipart: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			if err := copyFilePart(writer, key, fileHeader); err != nil {
				log.Printf("[GATEWAY] Failed to copy file %s: %v", fileHeader.Filename, err)
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
			}
		}
	}

	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
			}
		}
	}

	if err := writer.Close(); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(body.Bytes()))
	if err != nil {
		log.Printf("[GATEWAY] build multipart request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	copyRequestHeaders(c, req)

	return u.do(c, req)
}

func copyFilePart(writer *multipart.Writer, key string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}

	part, err := writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

func copyRequestHeaders(c fiber.Ctx, req *http.Request) {
	for _, key := range []string{"Accept", "Authorization"} {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}
}

func (u *Upstream) do(c fiber.Ctx, req *http.Request) error {
	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[GATEWAY] Error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[GATEWAY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !hopHeaders[key] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
