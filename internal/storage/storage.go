package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Storage persists submission artifacts under collision-free stored
// names. The stored name is the only handle; client-supplied names are
// metadata kept in the database.
type Storage interface {
	// Save writes the artifact and returns the generated stored name.
	// The original name is only used to preserve the file extension.
	Save(ctx context.Context, originalName string, r io.Reader) (storedName string, size int64, err error)

	// Open returns a reader for the artifact. The caller closes it.
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)

	// Remove deletes the artifact. Removing a missing artifact is not
	// an error.
	Remove(ctx context.Context, storedName string) error
}
