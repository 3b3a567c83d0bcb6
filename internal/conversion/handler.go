package conversion

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/anytomarkdown/pkg/handlers"
	"github.com/JaimeStill/anytomarkdown/pkg/routes"
)

// MsgURLConversionFailed replaces MsgConversionFailed for URL conversions.
const MsgURLConversionFailed = "Failed to convert URL content. AI service error."

type urlRequest struct {
	URL string `json:"url"`
}

// Handler provides HTTP endpoints for document conversion.
type Handler struct {
	sys     System
	fetcher *Fetcher
	policy  Policy
	logger  *slog.Logger
}

// NewHandler creates a conversion handler.
func NewHandler(sys System, fetcher *Fetcher, policy Policy, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		fetcher: fetcher,
		policy:  policy,
		logger:  logger.With("handler", "conversion"),
	}
}

// Routes returns the conversion route group.
// Every endpoint is served both bare and under /api.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Conversion"},
		Description: "Document to Markdown conversion",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/convert", Aliases: []string{"/api/convert"}, Handler: h.Convert, OpenAPI: Spec.Convert},
			{Method: "POST", Pattern: "/convert/batch", Aliases: []string{"/api/convert/batch", "/api/batch-convert"}, Handler: h.Batch, OpenAPI: Spec.Batch},
			{Method: "POST", Pattern: "/convert/url", Aliases: []string{"/api/convert/url"}, Handler: h.URL, OpenAPI: Spec.URL},
		},
	}
}

// Convert handles a single-file multipart upload.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	ext, err := ExtractRequest(w, r, h.policy, 1, NewError(ErrTooManyFiles, MsgTooManyFiles))
	if err != nil {
		h.respondError(w, err)
		return
	}

	switch {
	case ext.Files == 0:
		h.respondError(w, NewError(ErrNoFiles, MsgNoFiles))
		return
	case len(ext.Rejected) == 1:
		h.respondError(w, ext.Rejected[0].Err)
		return
	}

	h.logPageCounts(ext.Documents)

	results, err := h.sys.Convert(r.Context(), ext.Documents)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondOK(w, handlers.OK(results[0]))
}

// Batch handles a multi-file multipart upload.
// Rejected files are reported alongside the results of the admitted ones.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	ext, err := ExtractRequest(w, r, h.policy, h.policy.MaxBatchSize, BatchLimitError(h.policy.MaxBatchSize))
	if err != nil {
		h.respondError(w, err)
		return
	}

	if ext.Files == 0 {
		h.respondError(w, NewError(ErrNoFiles, MsgNoFiles))
		return
	}
	if len(ext.Documents) == 0 {
		h.respondError(w, NewError(ErrNoValidFiles, "No valid files were uploaded: "+strings.Join(ext.Reasons(), "; ")))
		return
	}

	h.logPageCounts(ext.Documents)

	results, err := h.sys.Convert(r.Context(), ext.Documents)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondOK(w, handlers.OKMany(results, ext.Reasons()))
}

// URL handles conversion of a document fetched from a remote URL.
func (h *Handler) URL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, wrapError(ErrInvalidJSON, MsgInvalidJSON, err))
		return
	}

	u, err := ParseURL(req.URL)
	if err != nil {
		h.respondError(w, err)
		return
	}

	doc, err := h.fetcher.Fetch(r.Context(), u)
	if err != nil {
		h.respondError(w, err)
		return
	}

	results, err := h.sys.Convert(r.Context(), []Document{doc})
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) && errors.Is(cerr.Kind, ErrConversionFailed) {
			err = wrapError(ErrConversionFailed, MsgURLConversionFailed, cerr.Cause)
		}
		h.respondError(w, err)
		return
	}

	handlers.RespondOK(w, handlers.OKMany(results, nil))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	logger := h.logger
	var cerr *Error
	if errors.As(err, &cerr) && cerr.Cause != nil {
		logger = logger.With("cause", cerr.Cause.Error())
	}
	handlers.RespondError(w, logger, MapHTTPStatus(err), err)
}

func (h *Handler) logPageCounts(docs []Document) {
	for _, d := range docs {
		if d.MIMEType != "application/pdf" {
			continue
		}
		if d.PageCount == nil {
			h.logger.Warn("failed to extract pdf page count", "name", d.Name)
			continue
		}
		h.logger.Debug("pdf admitted", "name", d.Name, "pages", *d.PageCount)
	}
}
