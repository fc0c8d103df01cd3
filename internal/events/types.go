package events

import (
	"geopost-service/internal/models"
	"time"

	"github.com/google/uuid"
)

const eventVersion = "1.0"

// BaseEvent represents the common fields for all events
type BaseEvent struct {
	ID        string           `json:"id"`
	Type      models.EventType `json:"type"`
	Timestamp int64            `json:"timestamp"`
	Version   string           `json:"version"`
}

// PostCreatedEvent announces a newly persisted post
type PostCreatedEvent struct {
	BaseEvent
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	ImageKeys []string  `json:"imageKeys"`
	Locations int       `json:"locations"`
	BBox      []float64 `json:"bbox,omitempty"`
	Geohash   string    `json:"geohash,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserEvent is published by the auth service on registration and profile changes
type UserEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func newBaseEvent(eventType models.EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Version:   eventVersion,
	}
}

// NewPostCreatedEvent creates a new post created event
func NewPostCreatedEvent(post *models.Post) *PostCreatedEvent {
	keys := make([]string, 0, len(post.Images))
	for _, image := range post.Images {
		keys = append(keys, image.Key)
	}

	return &PostCreatedEvent{
		BaseEvent: newBaseEvent(models.EventTypePostCreated),
		PostID:    post.ID.Hex(),
		UserID:    post.UserID,
		Title:     post.Title,
		ImageKeys: keys,
		Locations: len(post.Locations),
		BBox:      post.BBox,
		Geohash:   post.Geohash,
		CreatedAt: post.CreatedAt,
	}
}

// User converts the event payload to the stored user
func (e *UserEvent) User() *models.User {
	return &models.User{
		ID:       e.UserID,
		Username: e.Username,
		Email:    e.Email,
	}
}
