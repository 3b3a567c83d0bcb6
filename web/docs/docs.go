// Package docs serves the interactive API reference page using Scalar UI.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/JaimeStill/anytomarkdown/pkg/routes"
)

//go:embed index.html
var indexHTML []byte

// Handler serves the Scalar API reference.
type Handler struct{}

// NewHandler creates a documentation handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns the route group for documentation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api",
		Tags:        []string{"Documentation"},
		Description: "Interactive API documentation powered by Scalar",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/docs", Handler: h.serveIndex},
		},
	}
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML)
}
