package repository

import (
	"context"
	"geopost-service/internal/models"
	"testing"
	"time"
)

func TestPendingUploadKey(t *testing.T) {
	if key := PendingUploadKey("abc"); key != "pending-upload:abc" {
		t.Errorf("Expected pending-upload:abc, got %s", key)
	}
}

func TestJournalWithoutRedisIsNoop(t *testing.T) {
	journal := NewJournalRepository(nil, time.Hour)
	ctx := context.Background()

	entry := &models.PendingUpload{Token: "abc", Bucket: "post-images", Keys: []string{"1-a.jpg"}}
	if err := journal.SavePending(ctx, entry); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := journal.DeletePending(ctx, "abc"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
