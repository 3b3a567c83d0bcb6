package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

const (
	// EnvAdmissionAllowedTypes overrides the accepted MIME types (comma-separated).
	EnvAdmissionAllowedTypes = "ADMISSION_ALLOWED_TYPES"

	// EnvAdmissionMaxFileSize overrides the per-file size ceiling (binary units, "5MB" is 5 MiB).
	EnvAdmissionMaxFileSize = "ADMISSION_MAX_FILE_SIZE"

	// EnvAdmissionMaxBatchSize overrides the maximum number of files per batch request.
	EnvAdmissionMaxBatchSize = "ADMISSION_MAX_BATCH_SIZE"
)

// DefaultAllowedTypes lists the MIME types the conversion service accepts by default.
var DefaultAllowedTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/svg+xml",
	"text/html",
	"application/xml",
	"text/xml",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"application/vnd.ms-excel.sheet.macroenabled.12",
	"application/vnd.ms-excel.sheet.binary.macroenabled.12",
	"application/vnd.oasis.opendocument.spreadsheet",
	"text/csv",
	"application/vnd.apple.numbers",
}

// AdmissionConfig contains the upload admission policy.
type AdmissionConfig struct {
	AllowedTypes   []string `toml:"allowed_types"`
	MaxFileSize    string   `toml:"max_file_size"`
	MaxBatchSize   int      `toml:"max_batch_size"`
	maxFileSizeVal int64
}

// MaxFileSizeBytes returns the parsed per-file size ceiling.
func (c *AdmissionConfig) MaxFileSizeBytes() int64 {
	return c.maxFileSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the admission configuration.
func (c *AdmissionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AdmissionConfig) Merge(overlay *AdmissionConfig) {
	if overlay.AllowedTypes != nil {
		c.AllowedTypes = overlay.AllowedTypes
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.MaxBatchSize > 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
}

func (c *AdmissionConfig) loadDefaults() {
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = append([]string(nil), DefaultAllowedTypes...)
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "5MB"
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 10
	}
}

func (c *AdmissionConfig) loadEnv() {
	if v := os.Getenv(EnvAdmissionAllowedTypes); v != "" {
		c.AllowedTypes = splitList(v)
	}
	if v := os.Getenv(EnvAdmissionMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
	if v := os.Getenv(EnvAdmissionMaxBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxBatchSize = n
		}
	}
}

func (c *AdmissionConfig) validate() error {
	size, err := units.RAMInBytes(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	c.maxFileSizeVal = size

	if c.MaxBatchSize < 1 {
		return fmt.Errorf("max_batch_size must be at least 1")
	}
	return nil
}
