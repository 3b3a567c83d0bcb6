// Package routes declares HTTP routes and registers them onto a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/anytomarkdown/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Route represents an HTTP route with method, pattern, and handler.
// Aliases are additional absolute paths served by the same handler.
type Route struct {
	Method  string
	Pattern string
	Aliases []string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
