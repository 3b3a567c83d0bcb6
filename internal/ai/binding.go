// Package ai provides the document-to-Markdown conversion binding and its backends.
//
// A Binding converts an ordered list of documents in a single call and either
// returns one result per input, in input order, or fails as a whole.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
)

// Document is a named blob handed to a binding.
type Document struct {
	Name     string
	MIMEType string
	Blob     []byte
}

// Result is the Markdown rendition of one Document.
type Result struct {
	Name     string
	MIMEType string
	Format   string
	Tokens   int
	Data     string
}

// Binding converts documents to Markdown.
type Binding interface {
	ToMarkdown(ctx context.Context, docs []Document) ([]Result, error)
}

// Binding errors.
var (
	// ErrPayloadTooLarge marks a backend rejection of input that exceeds its size limits.
	ErrPayloadTooLarge = errors.New("payload too large for conversion backend")

	// ErrUnsupportedInput marks a document the configured backend cannot read.
	ErrUnsupportedInput = errors.New("input not supported by conversion backend")

	// ErrEmptyResponse marks a backend reply that carried no content.
	ErrEmptyResponse = errors.New("conversion backend returned no content")
)

// OversizedCode is the Workers AI error code for requests that are too large.
const OversizedCode = 3006

// OversizedSignal is OversizedCode as it appears in backend error text.
const OversizedSignal = "3006"

var oversizedPattern = regexp.MustCompile(`\b` + OversizedSignal + `\b`)

// IsPayloadTooLarge reports whether err signals that the conversion input was too large.
// Only ErrPayloadTooLarge in the chain counts; backends mark vendor signals with
// vendorError before any document name is attached.
func IsPayloadTooLarge(err error) bool {
	return err != nil && errors.Is(err, ErrPayloadTooLarge)
}

// vendorError marks err as oversized when the backend's own error text carries the
// oversized code. It must only see errors returned by the vendor client.
func vendorError(err error) error {
	if err == nil || errors.Is(err, ErrPayloadTooLarge) {
		return err
	}
	if oversizedPattern.MatchString(err.Error()) {
		return fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
	}
	return err
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Markdown result defaults.
const (
	MarkdownMIMEType = "text/markdown"
	MarkdownFormat   = "markdown"
)
