package proxy

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

// echoUpstream records the last request it received.
type echoUpstream struct {
	method      string
	path        string
	query       string
	contentType string
	body        []byte
	fileName    string
	fileData    string
}

func (e *echoUpstream) handler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/health/live" {
		w.WriteHeader(http.StatusOK)
		return
	}

	e.method = r.Method
	e.path = r.URL.Path
	e.query = r.URL.RawQuery
	e.contentType = r.Header.Get("Content-Type")

	if strings.HasPrefix(e.contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err == nil {
			data, _ := io.ReadAll(file)
			file.Close()
			e.fileName = header.Filename
			e.fileData = string(data)
		}
	} else {
		e.body, _ = io.ReadAll(r.Body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Upstream", "viewer")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"ok":true}`))
}

func newGateway(t *testing.T) (*fiber.App, *echoUpstream, *Upstream) {
	t.Helper()
	echo := &echoUpstream{}
	srv := httptest.NewServer(http.HandlerFunc(echo.handler))
	t.Cleanup(srv.Close)

	up := NewUpstream(srv.URL+"/", 2*time.Second)
	app := fiber.New()
	app.Get("/", up.ProxyTo("/"))
	app.All("/api/v1/*", up.Mirror())
	return app, echo, up
}

func TestMirrorRaw(t *testing.T) {
	app, echo, _ := newGateway(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pointer/move?trace=1", strings.NewReader(`{"x":1,"y":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated || string(body) != `{"ok":true}` {
		t.Errorf("response = %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Upstream") != "viewer" {
		t.Error("upstream headers not copied")
	}
	if echo.method != http.MethodPost || echo.path != "/api/v1/pointer/move" || echo.query != "trace=1" {
		t.Errorf("upstream saw %s %s?%s", echo.method, echo.path, echo.query)
	}
	if echo.contentType != "application/json" || string(echo.body) != `{"x":1,"y":2}` {
		t.Errorf("upstream body = %s (%s)", echo.body, echo.contentType)
	}
}

func TestProxyToFixedPath(t *testing.T) {
	app, echo, _ := newGateway(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated || echo.method != http.MethodGet || echo.path != "/" {
		t.Errorf("got %d, upstream saw %s %s", resp.StatusCode, echo.method, echo.path)
	}
}

func TestMirrorMultipart(t *testing.T) {
	app, echo, _ := newGateway(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "office.svg")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("<svg></svg>"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if echo.fileName != "office.svg" || echo.fileData != "<svg></svg>" {
		t.Errorf("upstream file = %q %q", echo.fileName, echo.fileData)
	}
}

func TestUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	up := NewUpstream(url, time.Second)
	app := fiber.New()
	app.All("/api/v1/*", up.Mirror())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/view", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if err := up.Ping(); err == nil {
		t.Error("Ping should fail for a closed upstream")
	}
}

func TestPing(t *testing.T) {
	_, _, up := newGateway(t)
	if err := up.Ping(); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
