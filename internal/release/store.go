package release

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const newFileMode fs.FileMode = 0o644

// Store reads and writes changelog documents.
type Store interface {
	Read(path string) (string, error)
	Write(path, content string) error
	Exists(path string) bool
}

// FileStore is a Store backed by the local filesystem. Writes go through
// natefinch/atomic, so a document is either fully written or left untouched.
type FileStore struct{}

// Read returns the UTF-8 contents of path.
func (FileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Write atomically replaces path with content. An existing file keeps its
// permissions; a new one gets newFileMode.
func (FileStore) Write(path, content string) error {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	// atomic.WriteFile only carries over the mode of a file it replaces.
	if !existed {
		if err := os.Chmod(path, newFileMode); err != nil {
			return fmt.Errorf("setting permissions: %w", err)
		}
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func (FileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
