package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the dataset blob as a single file on disk.
// Writes go through a temp file and rename so a crash mid-save never
// leaves a torn blob.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore rooted at the given path.
//
// Precondition: path must be non-empty; parent directories are created on
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted blob.
//
// Postcondition: returns (nil, false, nil) when the file does not exist.
func (s *FileStore) Load(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset file %q: %w", s.path, err)
	}
	return data, true, nil
}

// Save atomically replaces the persisted blob.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp dataset file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp dataset file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp dataset file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing dataset file %q: %w", s.path, err)
	}
	return nil
}

// Delete removes the persisted blob. Missing files are tolerated.
func (s *FileStore) Delete(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing dataset file %q: %w", s.path, err)
	}
	return nil
}
