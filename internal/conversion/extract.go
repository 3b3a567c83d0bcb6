package conversion

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JaimeStill/anytomarkdown/internal/ai"
)

// Extraction is the outcome of admitting the file parts of a form.
// Files counts every file part seen, admitted or not.
type Extraction struct {
	Documents []Document
	Rejected  []Rejection
	Files     int
}

// Reasons returns the rejection messages in submission order.
func (e Extraction) Reasons() []string {
	if len(e.Rejected) == 0 {
		return nil
	}
	reasons := make([]string, len(e.Rejected))
	for i, r := range e.Rejected {
		reasons[i] = r.Reason()
	}
	return reasons
}

// IsMultipart reports whether contentType denotes multipart/form-data.
func IsMultipart(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "multipart/form-data")
}

// ErrFileLimit reports that a form carried more file parts than DecodeParts was allowed to read.
var ErrFileLimit = errors.New("file part limit exceeded")

// DecodeParts walks a multipart body in submission order.
// At most maxFileBytes+1 bytes of each file part are buffered, enough to detect oversize files.
// When maxFiles is positive, decoding stops with ErrFileLimit at the first file part beyond it,
// before that part's content is read.
func DecodeParts(r *multipart.Reader, maxFileBytes int64, maxFiles int) ([]Part, error) {
	var parts []Part
	files := 0
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return nil, decodeError(err)
		}

		if p.FileName() != "" {
			files++
			if maxFiles > 0 && files > maxFiles {
				p.Close()
				return parts, ErrFileLimit
			}
		}

		part, err := decodePart(p, maxFileBytes)
		p.Close()
		if err != nil {
			return nil, decodeError(err)
		}
		parts = append(parts, part)
	}
}

func decodePart(p *multipart.Part, maxFileBytes int64) (Part, error) {
	filename := p.FileName()
	if filename == "" {
		value, err := io.ReadAll(io.LimitReader(p, maxFileBytes+1))
		if err != nil {
			return Part{}, err
		}
		return Part{Kind: PartValue, Field: p.FormName(), Value: string(value)}, nil
	}

	content, err := io.ReadAll(io.LimitReader(p, maxFileBytes+1))
	if err != nil {
		return Part{}, err
	}

	return Part{
		Kind:     PartFile,
		Field:    p.FormName(),
		Filename: filename,
		MIMEType: detectContentType(p.Header.Get("Content-Type"), content),
		Content:  content,
		Size:     int64(len(content)),
	}, nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return wrapError(ErrBodyTooLarge, MsgBodyTooLarge, err)
	}
	return wrapError(ErrInvalidRequest, MsgInvalidMultipart, err)
}

// mediaType strips parameters from a Content-Type value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

// detectContentType trusts the declared type unless it is absent or generic,
// in which case the content is sniffed.
func detectContentType(header string, data []byte) string {
	mt := mediaType(header)
	if mt != "" && mt != "application/octet-stream" {
		return mt
	}
	return mediaType(http.DetectContentType(data))
}

// Extract admits each file part against policy, preserving submission order.
// Value parts are ignored. PDFs receive a page count when it can be read.
func Extract(parts []Part, policy Policy) Extraction {
	var ext Extraction
	for _, p := range parts {
		if p.Kind != PartFile {
			continue
		}
		ext.Files++

		if err := policy.Admit(p.Filename, p.MIMEType, p.Size); err != nil {
			ext.Rejected = append(ext.Rejected, Rejection{Name: p.Filename, MIMEType: p.MIMEType, Err: err})
			continue
		}

		doc := Document{Name: p.Filename, MIMEType: p.MIMEType, Content: p.Content}
		if p.MIMEType == "application/pdf" {
			if n, err := ai.PageCount(p.Content); err == nil {
				doc.PageCount = &n
			}
		}
		ext.Documents = append(ext.Documents, doc)
	}
	return ext
}

// ExtractRequest bounds the request body, decodes its multipart form, and admits its files.
// A form with more than maxFiles file parts fails with tooMany as soon as the extra part is
// reached, so the count is reported even when the body would also overflow its cap.
func ExtractRequest(w http.ResponseWriter, r *http.Request, policy Policy, maxFiles int, tooMany error) (Extraction, error) {
	if !IsMultipart(r.Header.Get("Content-Type")) {
		return Extraction{}, NewError(ErrInvalidContentType, MsgInvalidContentType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, policy.MaxBodyBytes())

	mr, err := r.MultipartReader()
	if err != nil {
		return Extraction{}, wrapError(ErrInvalidRequest, MsgInvalidMultipart, fmt.Errorf("read multipart: %w", err))
	}

	parts, err := DecodeParts(mr, policy.MaxFileBytes, maxFiles)
	if errors.Is(err, ErrFileLimit) {
		return Extraction{}, tooMany
	}
	if err != nil {
		return Extraction{}, err
	}

	return Extract(parts, policy), nil
}
