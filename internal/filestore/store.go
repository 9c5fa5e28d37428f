// Package filestore defines the unified interface for file/object storage
// backends. Plotboard uses it for two things: persisted report documents and
// exported canvas captures.
//
// All providers (MinIO, S3-compatible, local disk, …) implement the Store
// interface. Callers depend only on this package — never on a specific
// provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the single interface all file storage providers must implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources (connections, goroutines, etc.).
	Close() error

	// EnsureBucket creates the bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// ListBuckets returns all buckets / containers accessible with the configured credentials.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)

	// ListObjects returns the objects in bucket that match opts.
	// Virtual directory entries (common prefixes) are included when opts.Recursive is false.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)

	// GetObject opens a streaming handle to the object at key inside bucket.
	// The caller MUST call Object.Close() after reading.
	GetObject(ctx context.Context, bucket, key string) (Object, error)

	// PutObject writes the reader's content to key inside bucket,
	// replacing any existing object. size may be -1 if unknown.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// StatObject returns metadata for the object at key inside bucket
	// without downloading its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// RemoveObject deletes the object at key inside bucket.
	// Removing a nonexistent object is not an error.
	RemoveObject(ctx context.Context, bucket, key string) error

	// PresignGetURL returns a time-limited URL that allows anyone to download
	// the object at key inside bucket without credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
