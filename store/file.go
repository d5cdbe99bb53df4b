package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend persists keys as individual files under a directory, for CLI
// and headless deployments. The directory is created with 0700 and every
// file is written 0600 because the stored values include the cached profile.
type FileBackend struct {
	mu  sync.Mutex
	dir string
}

// NewFileBackend describes the newfilebackend operation and its observable behavior.
//
// NewFileBackend may return an error when input validation, dependency calls, or security checks fail.
func NewFileBackend(dir string) (*FileBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: file backend requires a directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

// Get describes the get operation and its observable behavior.
func (f *FileBackend) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(raw), nil
}

// Set describes the set operation and its observable behavior.
func (f *FileBackend) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

// Delete describes the delete operation and its observable behavior.
func (f *FileBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileBackend) path(key string) string {
	// Keys are fixed identifiers, but never trust them as path segments.
	return filepath.Join(f.dir, filepath.Base(key)+".json")
}
