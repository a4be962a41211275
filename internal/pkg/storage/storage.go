package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no object exists at the path.
var ErrNotFound = errors.New("stored object not found")

// ErrInvalidPath is returned when a path escapes the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// Storage defines the interface for file storage operations.
// Paths are relative, slash-separated keys such as "vehicles/ab/<uuid>.jpg".
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is idempotent: deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
