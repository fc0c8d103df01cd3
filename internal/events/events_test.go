package events

import (
	"context"
	"errors"
	"geopost-service/internal/config"
	"geopost-service/internal/models"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeUserStore struct {
	users []*models.User
	err   error
}

func (f *fakeUserStore) Upsert(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, user)
	return nil
}

func TestNewPostCreatedEvent(t *testing.T) {
	post := &models.Post{
		ID:        bson.NewObjectID(),
		Title:     "Forest plot",
		UserID:    "u1",
		Images:    []models.Image{{Key: "1-a.jpg"}, {Key: "2-b.jpg"}},
		Locations: []models.Location{{Type: models.GeometryPoint, Coordinates: []float64{88.3, 22.5}}},
		CreatedAt: time.Now(),
	}

	event := NewPostCreatedEvent(post)

	if event.Type != models.EventTypePostCreated {
		t.Errorf("Expected type %s, got %s", models.EventTypePostCreated, event.Type)
	}
	if event.ID == "" {
		t.Error("Expected an event ID")
	}
	if event.PostID != post.ID.Hex() {
		t.Errorf("Expected post ID %s, got %s", post.ID.Hex(), event.PostID)
	}
	if len(event.ImageKeys) != 2 || event.ImageKeys[1] != "2-b.jpg" {
		t.Errorf("Unexpected image keys %v", event.ImageKeys)
	}
	if event.Locations != 1 {
		t.Errorf("Expected 1 location, got %d", event.Locations)
	}

	if NewPostCreatedEvent(post).ID == event.ID {
		t.Error("Expected distinct event IDs")
	}
}

func TestDisabledPublisherSkipsEvents(t *testing.T) {
	publisher, err := NewEventPublisher(context.Background(), &config.RabbitMQConfig{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := publisher.PublishPostCreated(context.Background(), &models.Post{}); err != nil {
		t.Errorf("Expected disabled publisher to skip, got %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}
}

func TestProcessUserEvents(t *testing.T) {
	store := &fakeUserStore{}
	consumer, err := NewEventConsumer(context.Background(), &config.RabbitMQConfig{}, store)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := []byte(`{"id":"e1","type":"user.registered","user_id":"u1","username":"alice","email":"Alice@Example.com"}`)
	err = consumer.processMessage(amqp091.Delivery{RoutingKey: "user.registered", Body: body})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.users) != 1 {
		t.Fatalf("Expected 1 stored user, got %d", len(store.users))
	}
	if store.users[0].Email != "alice@example.com" {
		t.Errorf("Expected lowercased email, got %s", store.users[0].Email)
	}
}

func TestProcessMessageErrors(t *testing.T) {
	testCases := []struct {
		name      string
		key       string
		body      string
		storeErr  error
		malformed bool
		wantErr   bool
	}{
		{"unknown routing key", "post.deleted", `{}`, nil, false, false},
		{"invalid json", "user.updated", `{`, nil, true, true},
		{"short username", "user.updated", `{"user_id":"u1","username":"al","email":"a@b.c"}`, nil, true, true},
		{"store failure", "user.registered", `{"user_id":"u1","username":"alice","email":"a@b.c"}`, errors.New("down"), false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			consumer := &EventConsumer{users: &fakeUserStore{err: tc.storeErr}}

			err := consumer.processMessage(amqp091.Delivery{RoutingKey: tc.key, Body: []byte(tc.body)})
			if (err != nil) != tc.wantErr {
				t.Fatalf("Expected error=%t, got %v", tc.wantErr, err)
			}
			if errors.Is(err, errMalformed) != tc.malformed {
				t.Errorf("Expected malformed=%t, got %v", tc.malformed, err)
			}
		})
	}
}
