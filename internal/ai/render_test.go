package ai

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/storage"
	"github.com/JaimeStill/anytomarkdown/pkg/logging"
)

func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, "page")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("generate pdf: %v", err)
	}
	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(samplePDF(t, 3))
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("PageCount() = %d, want 3", n)
	}

	if _, err := PageCount([]byte("not a pdf")); err == nil {
		t.Error("expected error for invalid pdf")
	}
}

func TestRenderRejectsTooManyPages(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.New(&config.StorageConfig{BasePath: dir}, logging.Discard())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}

	r := newPDFRenderer(store, 72, 2, logging.Discard())

	_, err = r.Render(context.Background(), Document{Name: "big.pdf", MIMEType: pdfMIMEType, Blob: samplePDF(t, 3)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Render() error = %v, want ErrPayloadTooLarge", err)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "render"))
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %d", len(entries))
	}
}
