package conversion

import (
	"fmt"

	"github.com/JaimeStill/anytomarkdown/internal/config"
)

// Policy is the upload admission policy. It is read-only once built.
type Policy struct {
	AllowedTypes map[string]struct{}
	MaxFileBytes int64
	MaxBatchSize int
}

// NewPolicy builds a Policy from finalized admission configuration.
func NewPolicy(cfg *config.AdmissionConfig) Policy {
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = struct{}{}
	}
	return Policy{
		AllowedTypes: allowed,
		MaxFileBytes: cfg.MaxFileSizeBytes(),
		MaxBatchSize: cfg.MaxBatchSize,
	}
}

// ValidateType reports whether mimeType is in the allow-list. Matching is exact.
func (p Policy) ValidateType(mimeType string) bool {
	if mimeType == "" {
		return false
	}
	_, ok := p.AllowedTypes[mimeType]
	return ok
}

// ValidateSize reports whether size is within the per-file limit.
func (p Policy) ValidateSize(size int64) bool {
	return size <= p.MaxFileBytes
}

// Admit checks a file against the policy. Type is checked before size.
func (p Policy) Admit(name, mimeType string, size int64) error {
	if !p.ValidateType(mimeType) {
		return NewError(ErrUnsupportedType, fmt.Sprintf("Unsupported file type: %s (%s)", name, mimeType))
	}
	if !p.ValidateSize(size) {
		return NewError(ErrFileTooLarge, fmt.Sprintf("File too large: %s", name))
	}
	return nil
}

// MaxBodyBytes bounds a whole multipart request: a full batch plus 1 MiB of form overhead.
func (p Policy) MaxBodyBytes() int64 {
	return int64(p.MaxBatchSize)*p.MaxFileBytes + 1<<20
}
