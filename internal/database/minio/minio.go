package minio

import (
	"context"
	"geopost-service/internal/config"
	"geopost-service/internal/database"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage is a database.ObjectStore backed by MinIO or any S3 compatible endpoint
type Storage struct {
	client *minio.Client
	region string
}

func NewStorage(cfg *config.MinIOConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		log.Printf("Error initializing MinIO client: %v", err)
		return nil, err
	}

	log.Println("Successfully initialized MinIO client")
	return &Storage{client: client, region: cfg.Region}, nil
}

// EnsureBucket checks if the bucket exists and creates it if it doesn't
func (s *Storage) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		log.Printf("Error checking if bucket %s exists: %v", bucket, err)
		return err
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{
		Region: s.region,
	})
	if err != nil {
		log.Printf("Error creating bucket %s: %v", bucket, err)
		return err
	}
	log.Printf("Created bucket: %s", bucket)
	return nil
}

// PutObject streams an object to MinIO
func (s *Storage) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (database.ObjectInfo, error) {
	uploadInfo, err := s.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("Error uploading %s to MinIO: %v", key, err)
		return database.ObjectInfo{}, err
	}

	return database.ObjectInfo{
		Key:          uploadInfo.Key,
		Size:         uploadInfo.Size,
		ContentType:  contentType,
		LastModified: uploadInfo.LastModified,
	}, nil
}

// ListObjects lists objects in a MinIO bucket with a prefix
func (s *Storage) ListObjects(ctx context.Context, bucket, prefix string) ([]database.ObjectInfo, error) {
	objectCh := s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var objects []database.ObjectInfo
	for object := range objectCh {
		if object.Err != nil {
			log.Printf("Error listing objects: %v", object.Err)
			return nil, object.Err
		}
		objects = append(objects, database.ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			ContentType:  object.ContentType,
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

// Close is a no-op; the MinIO client holds no connection that needs closing
func (s *Storage) Close() error {
	return nil
}
