package routes

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/anytomarkdown/pkg/handlers"
	"github.com/JaimeStill/anytomarkdown/pkg/openapi"
)

// Register mounts every route of groups onto mux and records their operations in spec.
// Paths are registered without a method so that a wrong method reaches MethodGuard
// and produces a 405 envelope instead of the ServeMux plain-text response.
// spec may be nil.
func Register(mux *http.ServeMux, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, spec, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	prefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	for _, route := range group.Routes {
		handler := MethodGuard(route.Method, route.Handler)
		if route.OpenAPI != nil && len(route.OpenAPI.Tags) == 0 {
			route.OpenAPI.Tags = tags
		}

		for _, path := range route.Paths(prefix) {
			mux.Handle(path, handler)
			if spec != nil {
				spec.AddOperation(path, route.Method, route.OpenAPI)
			}
		}
	}

	for _, child := range group.Children {
		registerGroup(mux, spec, prefix, tags, child)
	}
}

// Paths returns the primary path under prefix followed by the route aliases.
func (r Route) Paths(prefix string) []string {
	paths := make([]string, 0, len(r.Aliases)+1)
	paths = append(paths, prefix+r.Pattern)
	return append(paths, r.Aliases...)
}

// MethodGuard rejects requests whose method differs from method with a 405 envelope.
func MethodGuard(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			handlers.RespondJSON(w, http.StatusMethodNotAllowed, handlers.Fail(MethodNotAllowedMessage(method)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MethodNotAllowedMessage returns the client-facing 405 message for method.
func MethodNotAllowedMessage(method string) string {
	return fmt.Sprintf("Method not allowed. Only %s requests are supported.", method)
}
