package ai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/anytomarkdown/internal/storage"
)

const pdfMIMEType = "application/pdf"

// PageImage is one rendered PDF page encoded as a PNG data URI.
type PageImage struct {
	Page    int
	DataURI string
}

// pageRenderer turns a PDF into per-page images for vision backends.
type pageRenderer interface {
	Render(ctx context.Context, doc Document) ([]PageImage, error)
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}

type pdfRenderer struct {
	store    storage.System
	dpi      int
	maxPages int
	logger   *slog.Logger
}

func newPDFRenderer(store storage.System, dpi, maxPages int, logger *slog.Logger) *pdfRenderer {
	return &pdfRenderer{
		store:    store,
		dpi:      dpi,
		maxPages: maxPages,
		logger:   logger,
	}
}

// Render writes the PDF to scratch storage, rasterizes each page, and removes the scratch file.
// PDFs with more than maxPages pages fail with ErrPayloadTooLarge.
func (r *pdfRenderer) Render(ctx context.Context, doc Document) ([]PageImage, error) {
	count, err := PageCount(doc.Blob)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", doc.Name, err)
	}
	if count > r.maxPages {
		return nil, fmt.Errorf("%w: %s has %d pages (max %d)", ErrPayloadTooLarge, doc.Name, count, r.maxPages)
	}

	key := fmt.Sprintf("render/%s.pdf", uuid.New())
	if err := r.store.Store(ctx, key, doc.Blob); err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}
	defer func() {
		if err := r.store.Delete(context.Background(), key); err != nil {
			r.logger.Warn("failed to delete scratch file", "key", key, "error", err)
		}
	}()

	path, err := r.store.Path(ctx, key)
	if err != nil {
		return nil, err
	}

	pdf, err := document.Open(path, pdfMIMEType)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdf.Close()

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format:  string(document.PNG),
		DPI:     r.dpi,
		Options: make(map[string]any),
	})
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	pages := make([]PageImage, 0, count)
	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := pdf.ExtractPage(n)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", n, err)
		}

		data, err := page.ToImage(renderer, nil)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n, err)
		}

		pages = append(pages, PageImage{Page: n, DataURI: DataURI("image/png", data)})
	}

	r.logger.Debug("pdf rendered", "name", doc.Name, "pages", count)
	return pages, nil
}
