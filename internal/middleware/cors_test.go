package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/middleware"
)

func corsConfig(origins ...string) *config.CORSConfig {
	cfg := &config.CORSConfig{Origins: origins}
	cfg.Finalize()
	return cfg
}

func TestCORS_Headers(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		reqOrigin  string
		wantOrigin string
		wantVary   bool
	}{
		{"no origins configured", nil, "https://app.example", "", false},
		{"wildcard", []string{"*"}, "https://app.example", "*", false},
		{"wildcard without origin header", []string{"*"}, "", "*", false},
		{"listed origin echoed", []string{"https://app.example"}, "https://app.example", "https://app.example", true},
		{"unlisted origin", []string{"https://app.example"}, "https://evil.example", "", false},
		{"missing origin header", []string{"https://app.example"}, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(corsConfig(tt.origins...))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/status", nil)
			if tt.reqOrigin != "" {
				req.Header.Set("Origin", tt.reqOrigin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			h := rec.Header()
			if got := h.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := h.Get("Vary") == "Origin"; got != tt.wantVary {
				t.Errorf("Vary: Origin present = %v, want %v", got, tt.wantVary)
			}

			if tt.wantOrigin == "" {
				if h.Get("Access-Control-Allow-Methods") != "" {
					t.Error("Access-Control-Allow-Methods should not be set")
				}
				return
			}
			if got := h.Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, "GET, POST, OPTIONS")
			}
			if got := h.Get("Access-Control-Allow-Headers"); got != "Content-Type" {
				t.Errorf("Access-Control-Allow-Headers = %q, want %q", got, "Content-Type")
			}
			if got := h.Get("Access-Control-Max-Age"); got != "86400" {
				t.Errorf("Access-Control-Max-Age = %q, want %q", got, "86400")
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := middleware.CORS(corsConfig("*"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	for _, path := range []string{"/api/convert", "/anything/else"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://app.example")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("preflight response missing CORS headers")
			}
		})
	}

	if called {
		t.Error("handler should not run for preflight requests")
	}
}

func TestCORS_PreflightDeniedOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
	}{
		{"unlisted origin", []string{"https://app.example"}, "https://evil.example"},
		{"no origin header", []string{"https://app.example"}, ""},
		{"cors disabled", nil, "https://app.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.CORS(corsConfig(tt.origins...))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
			for key := range rec.Header() {
				if strings.HasPrefix(key, "Access-Control-") {
					t.Errorf("unexpected header %s = %q", key, rec.Header().Get(key))
				}
			}
			if called {
				t.Error("handler should not run for preflight requests")
			}
		})
	}
}
