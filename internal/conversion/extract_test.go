package conversion_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/anytomarkdown/internal/conversion"
)

func TestDecodeParts(t *testing.T) {
	body, ct := multipartBody(t, []upload{
		{field: "file1", filename: "a.html", mimeType: "text/html", content: "<p>a</p>"},
		{field: "file2", filename: "b.csv", mimeType: "text/csv; charset=utf-8", content: "x,y"},
		{field: "file3", filename: "big.pdf", mimeType: "application/pdf", content: strings.Repeat("x", 200)},
	}, map[string]string{"note": "hello"})

	_, params, _ := strings.Cut(ct, "boundary=")
	parts, err := conversion.DecodeParts(multipart.NewReader(body, params), 64, 0)
	if err != nil {
		t.Fatalf("DecodeParts() error = %v", err)
	}

	if len(parts) != 4 {
		t.Fatalf("len(parts) = %d, want 4", len(parts))
	}

	if parts[0].Kind != conversion.PartValue || parts[0].Field != "note" || parts[0].Value != "hello" {
		t.Errorf("parts[0] = %+v", parts[0])
	}

	wantFiles := []struct {
		name     string
		mimeType string
		size     int64
	}{
		{"a.html", "text/html", 8},
		{"b.csv", "text/csv", 3},
		{"big.pdf", "application/pdf", 65},
	}
	for i, want := range wantFiles {
		p := parts[i+1]
		if p.Kind != conversion.PartFile {
			t.Errorf("parts[%d].Kind = %v, want PartFile", i+1, p.Kind)
		}
		if p.Filename != want.name || p.MIMEType != want.mimeType || p.Size != want.size {
			t.Errorf("parts[%d] = {%s %s %d}, want %+v", i+1, p.Filename, p.MIMEType, p.Size, want)
		}
	}
}

func TestDecodePartsSniffsGenericType(t *testing.T) {
	body, ct := multipartBody(t, []upload{
		{filename: "page", mimeType: "application/octet-stream", content: "<!DOCTYPE html><html><body>x</body></html>"},
	}, nil)

	_, boundary, _ := strings.Cut(ct, "boundary=")
	parts, err := conversion.DecodeParts(multipart.NewReader(body, boundary), 1024, 0)
	if err != nil {
		t.Fatalf("DecodeParts() error = %v", err)
	}
	if parts[0].MIMEType != "text/html" {
		t.Errorf("MIMEType = %q, want text/html", parts[0].MIMEType)
	}
}

var errTooMany = conversion.BatchLimitError(3)

func TestDecodePartsStopsAtFileLimit(t *testing.T) {
	body, ct := multipartBody(t, []upload{
		{filename: "a.html", mimeType: "text/html", content: "a"},
		{filename: "b.html", mimeType: "text/html", content: "b"},
		{filename: "c.html", mimeType: "text/html", content: "c"},
	}, map[string]string{"note": "x"})

	_, boundary, _ := strings.Cut(ct, "boundary=")
	parts, err := conversion.DecodeParts(multipart.NewReader(body, boundary), 64, 2)
	if !errors.Is(err, conversion.ErrFileLimit) {
		t.Fatalf("error = %v, want ErrFileLimit", err)
	}
	if len(parts) != 3 {
		t.Errorf("len(parts) = %d, want 3", len(parts))
	}
}

func TestExtract(t *testing.T) {
	parts := []conversion.Part{
		{Kind: conversion.PartValue, Field: "note", Value: "x"},
		{Kind: conversion.PartFile, Filename: "a.html", MIMEType: "text/html", Content: []byte("a"), Size: 1},
		{Kind: conversion.PartFile, Filename: "b.exe", MIMEType: "application/x-msdownload", Size: 1},
		{Kind: conversion.PartFile, Filename: "c.csv", MIMEType: "text/csv", Content: []byte("c"), Size: 1},
		{Kind: conversion.PartFile, Filename: "d.pdf", MIMEType: "application/pdf", Size: 65},
	}

	ext := conversion.Extract(parts, testPolicy())

	if ext.Files != 4 {
		t.Errorf("Files = %d, want 4", ext.Files)
	}
	if len(ext.Documents) != 2 || ext.Documents[0].Name != "a.html" || ext.Documents[1].Name != "c.csv" {
		t.Errorf("Documents = %+v", ext.Documents)
	}

	wantReasons := []string{
		"Unsupported file type: b.exe (application/x-msdownload)",
		"File too large: d.pdf",
	}
	reasons := ext.Reasons()
	if len(reasons) != len(wantReasons) {
		t.Fatalf("Reasons() = %v", reasons)
	}
	for i := range wantReasons {
		if reasons[i] != wantReasons[i] {
			t.Errorf("Reasons()[%d] = %q, want %q", i, reasons[i], wantReasons[i])
		}
	}
}

func TestExtractRequest(t *testing.T) {
	t.Run("invalid content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		_, err := conversion.ExtractRequest(httptest.NewRecorder(), req, testPolicy(), 3, errTooMany)
		if !errors.Is(err, conversion.ErrInvalidContentType) {
			t.Fatalf("error = %v, want ErrInvalidContentType", err)
		}
		if err.Error() != conversion.MsgInvalidContentType {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("missing boundary", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("x"))
		req.Header.Set("Content-Type", "multipart/form-data")

		_, err := conversion.ExtractRequest(httptest.NewRecorder(), req, testPolicy(), 3, errTooMany)
		if !errors.Is(err, conversion.ErrInvalidRequest) {
			t.Fatalf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("body too large", func(t *testing.T) {
		p := testPolicy()
		huge := strings.Repeat("x", int(p.MaxBodyBytes())+10)
		body, ct := multipartBody(t, []upload{{filename: "a.html", mimeType: "text/html", content: huge}}, nil)

		req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", ct)

		_, err := conversion.ExtractRequest(httptest.NewRecorder(), req, p, 3, errTooMany)
		if !errors.Is(err, conversion.ErrBodyTooLarge) {
			t.Fatalf("error = %v, want ErrBodyTooLarge", err)
		}
	})

	t.Run("file count reported before body cap", func(t *testing.T) {
		p := testPolicy()
		p.MaxFileBytes = 1 << 20
		full := strings.Repeat("x", int(p.MaxFileBytes))

		uploads := make([]upload, 5)
		for i := range uploads {
			uploads[i] = upload{field: fmt.Sprintf("file%d", i+1), filename: fmt.Sprintf("f%d.html", i+1), mimeType: "text/html", content: full}
		}
		body, ct := multipartBody(t, uploads, nil)
		if int64(body.Len()) <= p.MaxBodyBytes() {
			t.Fatalf("body %d bytes does not exceed cap %d", body.Len(), p.MaxBodyBytes())
		}

		req := httptest.NewRequest(http.MethodPost, "/convert/batch", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", ct)

		_, err := conversion.ExtractRequest(httptest.NewRecorder(), req, p, p.MaxBatchSize, errTooMany)
		if !errors.Is(err, conversion.ErrBatchLimitExceeded) {
			t.Fatalf("error = %v, want ErrBatchLimitExceeded", err)
		}
		if !strings.Contains(err.Error(), "Maximum 3") {
			t.Errorf("message = %q", err.Error())
		}
		if conversion.MapHTTPStatus(err) != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", conversion.MapHTTPStatus(err))
		}
	})

	t.Run("admits files", func(t *testing.T) {
		body, ct := multipartBody(t, []upload{{filename: "a.html", mimeType: "text/html", content: "<p>a</p>"}}, nil)

		req := httptest.NewRequest(http.MethodPost, "/convert", body)
		req.Header.Set("Content-Type", ct)

		ext, err := conversion.ExtractRequest(httptest.NewRecorder(), req, testPolicy(), 3, errTooMany)
		if err != nil {
			t.Fatalf("ExtractRequest() error = %v", err)
		}
		if ext.Files != 1 || len(ext.Documents) != 1 {
			t.Errorf("extraction = %+v", ext)
		}
	})
}
