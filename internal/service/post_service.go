package service

import (
	"context"
	"fmt"
	"geopost-service/internal/config"
	"geopost-service/internal/events"
	"geopost-service/internal/geo"
	"geopost-service/internal/models"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// PostStore persists assembled posts
type PostStore interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
}

// UploadJournal records uploads that have started but are not yet referenced by a post
type UploadJournal interface {
	SavePending(ctx context.Context, entry *models.PendingUpload) error
	DeletePending(ctx context.Context, token string) error
}

// IngestRequest is one multipart submission split into fields and files.
// GeoJSON is either JSON text or an already decoded value.
type IngestRequest struct {
	Fields  PostFields
	GeoJSON any
	Files   []FilePayload
}

type PostService struct {
	uploads               *UploadService
	posts                 PostStore
	journal               UploadJournal
	eventPublisher        events.Publisher
	bucket                string
	maxFiles              int
	unknownGeometryPolicy string
}

// NewPostService creates a new post service. journal and eventPublisher may be nil.
func NewPostService(uploads *UploadService, posts PostStore, journal UploadJournal, eventPublisher events.Publisher, cfg *config.Config) *PostService {
	return &PostService{
		uploads:               uploads,
		posts:                 posts,
		journal:               journal,
		eventPublisher:        eventPublisher,
		bucket:                cfg.Storage.Bucket,
		maxFiles:              cfg.Server.MaxUploadFiles,
		unknownGeometryPolicy: cfg.Ingest.UnknownGeometryPolicy,
	}
}

// Ingest validates the submission, uploads its files, then saves and returns the post.
// Nothing is uploaded unless the fields, file count and GeoJSON are valid.
func (s *PostService) Ingest(ctx context.Context, req *IngestRequest) (*models.Post, error) {
	timer := prometheus.NewTimer(ingestDuration)
	defer timer.ObserveDuration()

	post, err := s.ingest(ctx, req)
	ingestResults.WithLabelValues(resultLabel(err)).Inc()
	return post, err
}

func (s *PostService) ingest(ctx context.Context, req *IngestRequest) (*models.Post, error) {
	fields, err := req.Fields.normalize()
	if err != nil {
		return nil, err
	}

	if len(req.Files) == 0 {
		return nil, newError(KindNoFilesProvided, "At least one file is required", nil)
	}
	if s.maxFiles > 0 && len(req.Files) > s.maxFiles {
		return nil, newError(KindTooManyFiles, fmt.Sprintf("At most %d files are allowed", s.maxFiles), nil)
	}

	geometries, err := geo.Normalize(req.GeoJSON)
	if err != nil {
		return nil, fromGeoError(err)
	}
	if err := s.checkUnknownGeometries(geometries); err != nil {
		return nil, err
	}

	keys := s.uploads.Keys(req.Files)
	token := uuid.NewString()
	s.recordPending(ctx, token, keys, fields.UserID)

	images, err := s.uploads.Upload(ctx, s.bucket, req.Files, keys)
	if err != nil {
		log.Printf("Error uploading files for user %s: %v", fields.UserID, err)
		return nil, err
	}

	post, err := AssemblePost(fields, images, geometries)
	if err != nil {
		return nil, err
	}

	saved, err := s.posts.Create(ctx, post)
	if err != nil {
		log.Printf("Error saving post for user %s: %v", fields.UserID, err)
		return nil, newError(KindPersistenceError, "Failed to save post", err)
	}

	s.clearPending(ctx, token)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.PublishPostCreated(ctx, saved); err != nil {
			log.Printf("Warning: failed to publish post created event for %s: %v", saved.ID.Hex(), err)
		}
	}

	log.Printf("Post %s created by %s with %d images and %d locations", saved.ID.Hex(), saved.UserID, len(saved.Images), len(saved.Locations))
	return saved, nil
}

func (s *PostService) checkUnknownGeometries(geometries []geo.Geometry) error {
	for i, g := range geometries {
		if g.Known() {
			continue
		}
		if s.unknownGeometryPolicy == config.UnknownGeometryReject {
			return newError(KindUnsupportedGeometry, fmt.Sprintf("Unsupported geometry type %q in feature %d", g.Type, i), nil)
		}
		log.Printf("Warning: feature %d has unrecognized geometry type %q, storing it outside locations", i, g.Type)
	}
	return nil
}

func (s *PostService) recordPending(ctx context.Context, token string, keys []string, userID string) {
	if s.journal == nil {
		return
	}

	entry := &models.PendingUpload{
		Token:     token,
		Bucket:    s.bucket,
		Keys:      keys,
		UserID:    userID,
		StartedAt: time.Now().UTC(),
	}
	if err := s.journal.SavePending(ctx, entry); err != nil {
		log.Printf("Warning: failed to journal pending upload %s: %v", token, err)
	}
}

func (s *PostService) clearPending(ctx context.Context, token string) {
	if s.journal == nil {
		return
	}

	if err := s.journal.DeletePending(ctx, token); err != nil {
		log.Printf("Warning: failed to clear pending upload %s: %v", token, err)
	}
}
