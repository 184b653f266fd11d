package filestorage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// BlobInfo describes a stored blob
type BlobInfo struct {
	Key  string // Storage key the blob lives under
	Size int64  // Size in bytes
}

// BlobStore defines the interface for key-addressed file storage operations
type BlobStore interface {
	// Put writes the content under key, replacing nothing: an existing key is an error
	Put(ctx context.Context, key string, content io.Reader) (*BlobInfo, error)

	// Get opens the blob for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *BlobInfo, error)

	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
