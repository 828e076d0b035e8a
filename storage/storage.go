package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo represents metadata about a stored object.
type ObjectInfo struct {
	Key          string            // Object key/path
	Size         int64             // Object size in bytes
	LastModified time.Time         // Last modification time
	ETag         string            // Entity tag, empty when the backend has none
	ContentType  string            // Content type
	Metadata     map[string]string // User-defined metadata
}

// PutOptions contains optional parameters for Put operation.
type PutOptions struct {
	ContentType string            // MIME type
	Metadata    map[string]string // User metadata
}

// Storage is the interface for whole-object storage operations.
// Objects are always written and read in full.
type Storage interface {
	// Put stores an object, replacing any previous content under the same key.
	Put(ctx context.Context, bucket, key string, reader io.Reader, opts *PutOptions) error

	// Get retrieves an object from the specified bucket.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, *ObjectInfo, error)

	// Delete removes an object from the specified bucket.
	Delete(ctx context.Context, bucket, key string) error

	// Exists checks if an object exists in the specified bucket.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// EnsureBucket creates the bucket if it does not exist yet.
	EnsureBucket(ctx context.Context, bucket string) error

	io.Closer
}
