package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage stores artifacts on the local filesystem.
type LocalStorage struct {
	dir     string
	maxSize int64
}

// ErrTooLarge is returned when an artifact exceeds the configured size limit.
var ErrTooLarge = fmt.Errorf("artifact exceeds size limit")

// NewLocalStorage creates the storage directory if needed and returns
// a filesystem-backed store. maxSize of 0 disables the size check.
func NewLocalStorage(dir string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{dir: dir, maxSize: maxSize}, nil
}

// Save writes the artifact under a uuid stored name, keeping the
// original extension so downloads carry a sensible content type.
// Writes go through a temp file and rename so a failed upload never
// leaves a partial artifact under a stored name.
func (s *LocalStorage) Save(ctx context.Context, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	storedName := uuid.New().String() + sanitizeExt(originalName)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	limited := io.Reader(r)
	if s.maxSize > 0 {
		limited = io.LimitReader(r, s.maxSize+1)
	}

	size, err := io.Copy(tmp, limited)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("failed to write artifact: %w", err)
	}
	if s.maxSize > 0 && size > s.maxSize {
		os.Remove(tmpName)
		return "", 0, ErrTooLarge
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, storedName)); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("failed to store artifact: %w", err)
	}

	return storedName, size, nil
}

// Open returns a reader for a stored artifact
func (s *LocalStorage) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(storedName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return f, nil
}

// Remove deletes a stored artifact
func (s *LocalStorage) Remove(ctx context.Context, storedName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(storedName)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}

// resolve rejects names that would escape the storage directory.
func (s *LocalStorage) resolve(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) || strings.HasPrefix(storedName, ".") {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, storedName), nil
}

// sanitizeExt keeps a short, safe extension from the original name.
func sanitizeExt(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
