// Package conversion implements document admission, extraction, and conversion to Markdown.
package conversion

import (
	"errors"
	"fmt"
)

// Document is an admitted file ready for conversion. It is request-scoped and never persisted.
type Document struct {
	Name      string
	MIMEType  string
	Content   []byte
	PageCount *int
}

// PartKind discriminates multipart form parts.
type PartKind int

const (
	// PartValue is a plain form field.
	PartValue PartKind = iota
	// PartFile is an uploaded file.
	PartFile
)

// Part is one decoded multipart form part.
// File parts carry Filename, MIMEType, Content, and Size; value parts carry Value.
type Part struct {
	Kind     PartKind
	Field    string
	Filename string
	MIMEType string
	Content  []byte
	Size     int64
	Value    string
}

// Rejection records a file that failed admission.
type Rejection struct {
	Name     string
	MIMEType string
	Err      error
}

// Reason returns the client-facing rejection message.
func (r Rejection) Reason() string {
	var cerr *Error
	if errors.As(r.Err, &cerr) {
		return cerr.Message
	}
	return fmt.Sprintf("%s: %v", r.Name, r.Err)
}

// Result is the Markdown rendition of one Document.
type Result struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Format   string `json:"format"`
	Tokens   int    `json:"tokens"`
	Data     string `json:"data"`
}
