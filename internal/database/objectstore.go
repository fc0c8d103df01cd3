// Package database holds the shared contracts of the storage backends in its
// subpackages.
package database

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ObjectStore is an object storage backend addressed by bucket and key
type ObjectStore interface {
	// EnsureBucket creates bucket when it does not exist yet
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject stores size bytes from reader under key; size may be -1 when unknown
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (ObjectInfo, error)

	// ListObjects lists every object in bucket whose key starts with prefix
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	Close() error
}
