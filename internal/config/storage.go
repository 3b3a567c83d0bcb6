package config

import (
	"fmt"
	"os"
)

// EnvStorageBasePath overrides the scratch storage base path.
const EnvStorageBasePath = "STORAGE_BASE_PATH"

// StorageConfig contains scratch storage configuration.
// Scratch files hold uploads that must exist on disk while PDF pages are rendered.
type StorageConfig struct {
	// BasePath is the root directory for scratch files.
	// Default: ".data/scratch"
	BasePath string `toml:"base_path"`
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/scratch"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.BasePath = v
	}
}

func (c *StorageConfig) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}
	return nil
}
