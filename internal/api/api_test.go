package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/JaimeStill/anytomarkdown/internal/api"
	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/conversion"
	"github.com/JaimeStill/anytomarkdown/pkg/logging"
)

type fakeSystem struct {
	panics bool
	calls  int
}

func (s *fakeSystem) Convert(ctx context.Context, docs []conversion.Document) ([]conversion.Result, error) {
	s.calls++
	if s.panics {
		panic("binding exploded")
	}
	out := make([]conversion.Result, len(docs))
	for i, d := range docs {
		out[i] = conversion.Result{Name: d.Name, MIMEType: "text/markdown", Format: "markdown", Data: "# " + d.Name}
	}
	return out, nil
}

type readiness bool

func (r readiness) Ready() bool { return bool(r) }

func testConfig(t *testing.T, origins ...string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.CORS.Origins = origins
	cfg.AI.AccountID = "acct"
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func newHandler(t *testing.T, sys conversion.System, ready bool, origins ...string) http.Handler {
	t.Helper()
	h, err := api.NewHandler(testConfig(t, origins...), sys, readiness(ready), logging.Discard())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

func htmlUpload(t *testing.T, path string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="a.html"`)
	h.Set("Content-Type", "text/html")
	part, _ := mw.CreatePart(h)
	part.Write([]byte("<p>a</p>"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestStatus(t *testing.T) {
	h := newHandler(t, &fakeSystem{}, true)

	for _, path := range []string{"/status", "/api/status", "/api/health", "/api/status/"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := decode(t, rec)
			if body["success"] != true || body["status"] != "online" || body["service"] != "anytomarkdown" || body["version"] != "1.0.0" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	h := newHandler(t, &fakeSystem{}, true)

	for _, path := range []string{"/", "/nope", "/api/unknown", "/convert/other"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			body := decode(t, rec)
			if body["success"] != false || body["error"] != "Not found" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newHandler(t, &fakeSystem{}, true)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/convert", "Method not allowed. Only POST requests are supported."},
		{http.MethodPut, "/api/convert/batch", "Method not allowed. Only POST requests are supported."},
		{http.MethodDelete, "/api/convert/url", "Method not allowed. Only POST requests are supported."},
		{http.MethodPost, "/api/status", "Method not allowed. Only GET requests are supported."},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Fatalf("status = %d, want 405", rec.Code)
			}
			if body := decode(t, rec); body["error"] != tt.want {
				t.Errorf("error = %v, want %q", body["error"], tt.want)
			}
		})
	}
}

func TestPreflight(t *testing.T) {
	sys := &fakeSystem{}
	h := newHandler(t, sys, true, "*")

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Max-Age = %q", got)
	}
	if sys.calls != 0 {
		t.Errorf("conversion ran on preflight")
	}
}

func TestConvertThroughPipeline(t *testing.T) {
	h := newHandler(t, &fakeSystem{}, true, "https://app.example")

	for _, path := range []string{"/convert", "/api/convert/"} {
		t.Run(path, func(t *testing.T) {
			req := htmlUpload(t, path)
			req.Header.Set("Origin", "https://app.example")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
				t.Errorf("Allow-Origin = %q", got)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
			body := decode(t, rec)
			result, _ := body["result"].(map[string]any)
			if body["success"] != true || result["data"] != "# a.html" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestPanicRecovery(t *testing.T) {
	h := newHandler(t, &fakeSystem{panics: true}, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, htmlUpload(t, "/api/convert"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false || body["error"] != "Internal server error." {
		t.Errorf("body = %v", body)
	}
}

func TestProbes(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		ready  bool
		status int
		body   string
	}{
		{"healthz", "/healthz", false, http.StatusOK, "OK"},
		{"ready", "/readyz", true, http.StatusOK, "READY"},
		{"not ready", "/readyz", false, http.StatusServiceUnavailable, "NOT READY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, &fakeSystem{}, tt.ready)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status || rec.Body.String() != tt.body {
				t.Errorf("got %d %q, want %d %q", rec.Code, rec.Body.String(), tt.status, tt.body)
			}
		})
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h := newHandler(t, &fakeSystem{}, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, p := range []string{"/convert", "/api/convert", "/api/batch-convert", "/api/convert/url", "/status"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("openapi document missing path %s", p)
		}
	}
	if _, ok := doc.Paths["/api/convert"]["post"]; !ok {
		t.Error("missing POST operation for /api/convert")
	}
	if strings.Contains(fmt.Sprint(doc.Paths), "openapi.json") {
		t.Error("document lists its own endpoint")
	}
}
