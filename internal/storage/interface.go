package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for artifact storage operations.
// Report artifacts are written to a temporary key first and promoted with
// Copy+Delete only after the write fully succeeds, so a failed generation
// never leaves a registered artifact behind.
type ObjectStorage interface {
	// EnsureBucket makes sure the backing bucket or directory exists
	EnsureBucket(ctx context.Context) error

	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download downloads an object from storage
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Copy duplicates an object under a new key
	Copy(ctx context.Context, srcKey, dstKey string) error

	// Delete deletes an object from storage
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)
}
