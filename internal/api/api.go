// Package api assembles the HTTP surface of the conversion service.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/conversion"
	"github.com/JaimeStill/anytomarkdown/internal/lifecycle"
	"github.com/JaimeStill/anytomarkdown/internal/middleware"
	"github.com/JaimeStill/anytomarkdown/pkg/handlers"
	"github.com/JaimeStill/anytomarkdown/pkg/openapi"
	"github.com/JaimeStill/anytomarkdown/pkg/routes"
	"github.com/JaimeStill/anytomarkdown/web/docs"
)

// ServiceName identifies the service in status responses.
const ServiceName = "anytomarkdown"

// NewHandler builds the routed, middleware-wrapped handler for the service.
// Middleware order, outermost first: request logging, CORS, panic recovery, slash trimming.
func NewHandler(cfg *config.Config, sys conversion.System, ready lifecycle.ReadinessChecker, logger *slog.Logger) (http.Handler, error) {
	policy := conversion.NewPolicy(&cfg.Admission)
	fetcher := conversion.NewFetcher(&cfg.Fetch, policy, logger)
	convHandler := conversion.NewHandler(sys, fetcher, policy, logger)

	mux := http.NewServeMux()
	spec := openapi.NewSpec("AnyToMarkdown API", cfg.Version)
	spec.SetDescription("Convert documents, images, spreadsheets, and web pages to Markdown.")
	spec.AddSchemas(conversion.Schemas())
	spec.AddSchemas(Schemas())

	routes.Register(mux, spec,
		systemRoutes(cfg.Version),
		probeRoutes(ready),
		convHandler.Routes(),
	)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}

	routes.Register(mux, nil,
		routes.Group{
			Prefix: "/api",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(specBytes)},
			},
		},
		docs.NewHandler().Routes(),
	)

	mux.HandleFunc("/", notFound)

	mw := middleware.New()
	mw.Use(middleware.Logger(logger))
	mw.Use(middleware.CORS(&cfg.CORS))
	mw.Use(middleware.Recover(logger))
	mw.Use(middleware.TrimSlash())

	return mw.Apply(mux), nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusNotFound, handlers.Fail(conversion.MsgNotFound))
}
