package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"geopost-service/internal/models"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
)

const pendingUploadPrefix = "pending-upload:"

// JournalRepository keeps pending-upload entries in Redis. A nil client
// turns every method into a no-op.
type JournalRepository struct {
	client *redis_v9.Client
	ttl    time.Duration
}

func NewJournalRepository(client *redis_v9.Client, ttl time.Duration) *JournalRepository {
	return &JournalRepository{
		client: client,
		ttl:    ttl,
	}
}

func PendingUploadKey(token string) string {
	return pendingUploadPrefix + token
}

func (r *JournalRepository) SavePending(ctx context.Context, entry *models.PendingUpload) error {
	if r.client == nil {
		return nil
	}

	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error encoding pending upload: %w", err)
	}

	if err := r.client.Set(ctx, PendingUploadKey(entry.Token), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving pending upload %s: %w", entry.Token, err)
	}
	return nil
}

func (r *JournalRepository) DeletePending(ctx context.Context, token string) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, PendingUploadKey(token)).Err(); err != nil {
		return fmt.Errorf("error deleting pending upload %s: %w", token, err)
	}
	return nil
}
