// Package blob adapts a gocloud.dev bucket to database.ObjectStore.
//
// A gocloud bucket URL names a single bucket, so the bucket argument of each
// call is used as a key prefix: PutObject(ctx, "post-images", "k", ...) writes
// "post-images/k".
package blob

import (
	"context"
	"errors"
	"fmt"
	"geopost-service/internal/database"
	"io"
	"log"
	"path"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

type Storage struct {
	bucket *blob.Bucket
}

// OpenStorage opens a bucket URL such as mem:// or file:///var/lib/geopost
func OpenStorage(ctx context.Context, url string) (*Storage, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", url, err)
	}

	log.Printf("Opened blob bucket %s", url)
	return NewStorage(bucket), nil
}

func NewStorage(bucket *blob.Bucket) *Storage {
	return &Storage{bucket: bucket}
}

// EnsureBucket is a no-op, prefixes need no creation
func (s *Storage) EnsureBucket(ctx context.Context, bucket string) error {
	return nil
}

func (s *Storage) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (database.ObjectInfo, error) {
	fullKey := path.Join(bucket, key)

	w, err := s.bucket.NewWriter(ctx, fullKey, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return database.ObjectInfo{}, fmt.Errorf("failed to open writer for %s: %w", fullKey, err)
	}

	written, copyErr := io.Copy(w, reader)
	closeErr := w.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		log.Printf("Error writing %s: %v", fullKey, err)
		return database.ObjectInfo{}, err
	}

	if size >= 0 && written != size {
		return database.ObjectInfo{}, fmt.Errorf("short write for %s: wrote %d of %d bytes", fullKey, written, size)
	}

	return database.ObjectInfo{
		Key:         key,
		Size:        written,
		ContentType: contentType,
	}, nil
}

func (s *Storage) ListObjects(ctx context.Context, bucket, prefix string) ([]database.ObjectInfo, error) {
	bucketPrefix := bucket + "/"
	iter := s.bucket.List(&blob.ListOptions{
		Prefix: bucketPrefix + prefix,
	})

	var objects []database.ObjectInfo
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", bucket, err)
		}
		if obj.IsDir {
			continue
		}

		objects = append(objects, database.ObjectInfo{
			Key:          strings.TrimPrefix(obj.Key, bucketPrefix),
			Size:         obj.Size,
			LastModified: obj.ModTime,
		})
	}

	return objects, nil
}

func (s *Storage) Close() error {
	return s.bucket.Close()
}
