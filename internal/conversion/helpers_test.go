package conversion_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/JaimeStill/anytomarkdown/internal/ai"
	"github.com/JaimeStill/anytomarkdown/internal/conversion"
)

type upload struct {
	field    string
	filename string
	mimeType string
	content  string
}

func multipartBody(t *testing.T, uploads []upload, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	for _, u := range uploads {
		field := u.field
		if field == "" {
			field = "file"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, u.filename))
		if u.mimeType != "" {
			h.Set("Content-Type", u.mimeType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte(u.content))
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func testPolicy() conversion.Policy {
	return conversion.Policy{
		AllowedTypes: map[string]struct{}{
			"text/html":       {},
			"text/csv":        {},
			"application/pdf": {},
			"image/png":       {},
		},
		MaxFileBytes: 64,
		MaxBatchSize: 3,
	}
}

// fakeBinding echoes each document as Markdown and records calls.
type fakeBinding struct {
	mu      sync.Mutex
	calls   int
	docs    []ai.Document
	err     error
	results []ai.Result
}

func (b *fakeBinding) ToMarkdown(ctx context.Context, docs []ai.Document) ([]ai.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.docs = docs
	if b.err != nil {
		return nil, b.err
	}
	if b.results != nil {
		return b.results, nil
	}
	out := make([]ai.Result, len(docs))
	for i, d := range docs {
		out[i] = ai.Result{
			Name:     d.Name,
			MIMEType: "text/markdown",
			Format:   "markdown",
			Tokens:   len(d.Blob),
			Data:     "# " + d.Name,
		}
	}
	return out, nil
}

func (b *fakeBinding) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}
