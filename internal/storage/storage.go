// Package storage provides scratch file storage for uploads that must exist on disk
// while they are processed, such as PDFs opened for page rendering.
package storage

import (
	"context"

	"github.com/JaimeStill/anytomarkdown/internal/lifecycle"
)

// System defines scratch storage operations.
type System interface {
	// Store saves data at the specified key, overwriting any existing contents.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Path returns the absolute filesystem path for key.
	Path(ctx context.Context, key string) (string, error)

	// Delete removes the data at the specified key.
	// Returns nil if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
