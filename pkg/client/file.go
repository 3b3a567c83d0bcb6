package client

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/docker/go-units"

	"github.com/JaimeStill/anytomarkdown/internal/config"
)

// DefaultMaxFileBytes is the pre-upload size ceiling (5 MiB).
const DefaultMaxFileBytes = 5 * units.MiB

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// File is a document staged for upload.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

var extensionTypes = map[string]string{
	".pdf":     "application/pdf",
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".png":     "image/png",
	".webp":    "image/webp",
	".svg":     "image/svg+xml",
	".html":    "text/html",
	".htm":     "text/html",
	".xml":     "application/xml",
	".csv":     "text/csv",
	".xlsx":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":     "application/vnd.ms-excel",
	".xlsm":    "application/vnd.ms-excel.sheet.macroenabled.12",
	".xlsb":    "application/vnd.ms-excel.sheet.binary.macroenabled.12",
	".ods":     "application/vnd.oasis.opendocument.spreadsheet",
	".numbers": "application/vnd.apple.numbers",
}

// OpenFile reads path and resolves its MIME type.
func OpenFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return File{
		Name:     name,
		MIMEType: DetectType(name, data),
		Content:  data,
	}, nil
}

// DetectType resolves a MIME type from the file extension, falling back to content sniffing.
func DetectType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// Policy is the pre-upload admission check, mirroring the server defaults.
type Policy struct {
	AllowedTypes []string
	MaxFileBytes int64
}

// DefaultPolicy returns the server's default allow-list with a 5 MiB ceiling.
func DefaultPolicy() Policy {
	return Policy{
		AllowedTypes: slices.Clone(config.DefaultAllowedTypes),
		MaxFileBytes: DefaultMaxFileBytes,
	}
}

// Check validates type first, then size.
func (p Policy) Check(f File) error {
	if f.MIMEType == "" || !slices.Contains(p.AllowedTypes, f.MIMEType) {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, f.Name, f.MIMEType)
	}
	if p.MaxFileBytes > 0 && int64(len(f.Content)) > p.MaxFileBytes {
		return fmt.Errorf("%w: %s (%s)", ErrFileTooLarge, f.Name, units.BytesSize(float64(len(f.Content))))
	}
	return nil
}
