package service

import (
	"bytes"
	"context"
	"fmt"
	"geopost-service/internal/database"
	"geopost-service/internal/models"
	"geopost-service/pkg/utils"
	"io"
	"log"
	"mime/multipart"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// FilePayload is one received file. Open may be called once per upload.
type FilePayload struct {
	FieldName   string
	FileName    string
	ContentType string
	Size        int64 // -1 when unknown
	Open        func() (io.ReadCloser, error)
}

// PayloadFromFileHeader wraps a multipart file part
func PayloadFromFileHeader(fieldName string, fileHeader *multipart.FileHeader) FilePayload {
	return FilePayload{
		FieldName:   fieldName,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Open: func() (io.ReadCloser, error) {
			return fileHeader.Open()
		},
	}
}

// BytesPayload wraps an in-memory file
func BytesPayload(fieldName, fileName, contentType string, data []byte) FilePayload {
	return FilePayload{
		FieldName:   fieldName,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// lastStamp is the most recent key stamp handed out by this process
var lastStamp atomic.Int64

// nextStamp returns a UnixNano timestamp strictly greater than every earlier one
func nextStamp() int64 {
	for {
		last := lastStamp.Load()
		now := time.Now().UnixNano()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

type UploadService struct {
	store       database.ObjectStore
	concurrency int
	detector    *utils.ContentTypeDetector
	validators  *utils.Validators
}

// NewUploadService creates an uploader writing at most concurrency files at once
func NewUploadService(store database.ObjectStore, concurrency int) *UploadService {
	if concurrency < 1 {
		concurrency = 1
	}

	return &UploadService{
		store:       store,
		concurrency: concurrency,
		detector:    utils.NewContentTypeDetector(),
		validators:  utils.NewValidators(),
	}
}

// Keys assigns one storage key per file, in file order
func (s *UploadService) Keys(files []FilePayload) []string {
	keys := make([]string, len(files))
	for i, file := range files {
		keys[i] = fmt.Sprintf("%d-%s", nextStamp(), s.validators.SanitizeFilename(file.FileName))
	}
	return keys
}

// Upload writes every file to bucket under the matching key and returns the
// image metadata in file order. The first failure fails the batch; objects
// already written stay in the bucket.
func (s *UploadService) Upload(ctx context.Context, bucket string, files []FilePayload, keys []string) ([]models.Image, error) {
	if len(keys) != len(files) {
		return nil, fmt.Errorf("got %d keys for %d files", len(keys), len(files))
	}

	images := make([]models.Image, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, file := range files {
		g.Go(func() error {
			image, err := s.uploadOne(gctx, bucket, keys[i], file)
			if err != nil {
				uploadedFiles.WithLabelValues("failure").Inc()
				return err
			}
			uploadedFiles.WithLabelValues("success").Inc()
			uploadedBytes.Add(float64(image.Size))
			images[i] = image
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, newError(KindStorageError, "Failed to upload files", err)
	}

	return images, nil
}

func (s *UploadService) uploadOne(ctx context.Context, bucket, key string, file FilePayload) (models.Image, error) {
	rc, err := file.Open()
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to open %s: %w", file.FileName, err)
	}
	defer rc.Close()

	var reader io.Reader = rc
	contentType := strings.TrimSpace(file.ContentType)
	if s.detector.IsUndeclared(contentType) {
		detected, replay, err := s.detector.DetectContentTypeFromReader(file.FileName, rc)
		if err != nil {
			return models.Image{}, fmt.Errorf("failed to read %s: %w", file.FileName, err)
		}
		contentType, reader = detected, replay
	}

	if !s.detector.IsImageContentType(contentType) {
		log.Printf("Warning: %s has non-image content type %s", file.FileName, contentType)
	}

	hashingReader := utils.NewMD5Reader(reader)
	if _, err := s.store.PutObject(ctx, bucket, key, hashingReader, file.Size, contentType); err != nil {
		return models.Image{}, fmt.Errorf("failed to upload %s as %s: %w", file.FileName, key, err)
	}

	return models.Image{
		Key:         key,
		Bucket:      bucket,
		FileName:    file.FileName,
		ContentType: contentType,
		Size:        hashingReader.BytesRead(),
		Checksum:    hashingReader.Sum(),
	}, nil
}
