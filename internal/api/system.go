package api

import (
	"net/http"

	"github.com/JaimeStill/anytomarkdown/internal/lifecycle"
	"github.com/JaimeStill/anytomarkdown/pkg/handlers"
	"github.com/JaimeStill/anytomarkdown/pkg/openapi"
	"github.com/JaimeStill/anytomarkdown/pkg/routes"
)

// Status is the body of the service status endpoint.
type Status struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func systemRoutes(version string) routes.Group {
	status := Status{
		Success: true,
		Status:  "online",
		Service: ServiceName,
		Version: version,
	}

	return routes.Group{
		Tags:        []string{"System"},
		Description: "Service status",
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "/status",
				Aliases: []string{"/api/status", "/api/health"},
				Handler: func(w http.ResponseWriter, r *http.Request) {
					handlers.RespondJSON(w, http.StatusOK, status)
				},
				OpenAPI: &openapi.Operation{
					Summary: "Service status",
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Service is online", "Status"),
					},
				},
			},
		},
	}
}

func probeRoutes(ready lifecycle.ReadinessChecker) routes.Group {
	return routes.Group{
		Tags:        []string{"Infrastructure"},
		Description: "Orchestrator probes",
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "/healthz",
				Handler: handleHealthCheck,
				OpenAPI: &openapi.Operation{
					Summary: "Health check endpoint",
					Responses: map[int]*openapi.Response{
						200: {Description: "Service is healthy"},
					},
				},
			},
			{
				Method:  "GET",
				Pattern: "/readyz",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					handleReadinessCheck(w, ready)
				},
				OpenAPI: &openapi.Operation{
					Summary: "Readiness check endpoint",
					Responses: map[int]*openapi.Response{
						200: {Description: "Service is ready"},
						503: {Description: "Service not ready"},
					},
				},
			},
		},
	}
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

// Schemas returns the component schemas shared by every endpoint.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Envelope": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"error":   {Type: "string"},
			},
			Required: []string{"success"},
		},
		"Status": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"status":  {Type: "string"},
				"service": {Type: "string"},
				"version": {Type: "string"},
			},
		},
	}
}
