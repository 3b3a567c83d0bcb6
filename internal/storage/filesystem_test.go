package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/anytomarkdown/internal/config"
	"github.com/JaimeStill/anytomarkdown/internal/lifecycle"
	"github.com/JaimeStill/anytomarkdown/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) (storage.System, string) {
	t.Helper()
	dir := t.TempDir()
	sys, err := storage.New(&config.StorageConfig{BasePath: dir}, testLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return sys, dir
}

func TestNew_EmptyBasePath(t *testing.T) {
	if _, err := storage.New(&config.StorageConfig{}, testLogger()); err == nil {
		t.Fatal("New() succeeded with empty BasePath, want error")
	}
}

func TestStart_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "scratch")

	sys, err := storage.New(&config.StorageConfig{BasePath: target}, testLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	lc.WaitForStartup()

	if _, err := os.Stat(target); err != nil {
		t.Errorf("Start() did not create storage directory: %v", err)
	}
}

func TestStore_Path_Delete(t *testing.T) {
	sys, dir := newStore(t)
	ctx := context.Background()
	key := "render/abc/report.pdf"

	if err := sys.Store(ctx, key, []byte("%PDF-1.4")); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	path, err := sys.Path(ctx, key)
	if err != nil {
		t.Fatalf("Path() failed: %v", err)
	}
	if path != filepath.Join(dir, key) {
		t.Errorf("Path() = %q, want %q", path, filepath.Join(dir, key))
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Fatalf("stored data = %q, %v", data, err)
	}

	if err := sys.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Delete()")
	}
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Error("empty parent directory not removed")
	}

	if err := sys.Delete(ctx, key); err != nil {
		t.Errorf("Delete() of missing key = %v, want nil", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	sys, _ := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.pdf", "a/../../escape.pdf", "/etc/passwd", "."} {
		t.Run(key, func(t *testing.T) {
			if err := sys.Store(ctx, key, []byte("x")); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := sys.Path(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Path(%q) error = %v, want ErrInvalidKey", key, err)
			}
		})
	}
}
