package repository

import (
	"context"
	"errors"
	"fmt"
	"geopost-service/internal/models"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodb "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// codeNamespaceExists is returned by create when the collection is already there
const codeNamespaceExists = 48

var ErrUserNotFound = errors.New("user not found")

// UserLookup answers the owner check in Create. *UserRepository satisfies it.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type PostRepository struct {
	database             *mongodb.Database
	collection           *mongodb.Collection
	users                UserLookup
	enforceUserReference bool
}

// NewPostRepository creates a new post repository. When enforceUserReference
// is set, Create refuses posts whose userId is not in the users collection.
func NewPostRepository(database *mongodb.Database, users UserLookup, enforceUserReference bool) *PostRepository {
	return &PostRepository{
		database:             database,
		collection:           database.Collection(models.PostCollection),
		users:                users,
		enforceUserReference: enforceUserReference,
	}
}

// EnsureSchema registers the posts validator and indexes. It is safe to call
// on every start.
func (r *PostRepository) EnsureSchema(ctx context.Context) error {
	validator := models.GetPostValidator()

	err := r.database.CreateCollection(ctx, models.PostCollection, options.CreateCollection().SetValidator(validator))
	if err != nil {
		var cmdErr mongodb.CommandError
		if !errors.As(err, &cmdErr) || !cmdErr.HasErrorCode(codeNamespaceExists) {
			return fmt.Errorf("failed to create posts collection: %w", err)
		}

		cmd := bson.D{
			{Key: "collMod", Value: models.PostCollection},
			{Key: "validator", Value: validator},
		}
		if err := r.database.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("failed to update posts validator: %w", err)
		}
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, models.GetPostIndexes()); err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}

	log.Printf("Posts collection ready with validator and 2dsphere index")
	return nil
}

// Create saves a new post. Every call inserts a new document with a fresh ID.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if r.enforceUserReference {
		exists, err := r.users.Exists(ctx, post.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check user %s: %w", post.UserID, err)
		}
		if !exists {
			return nil, fmt.Errorf("post owner %s: %w", post.UserID, ErrUserNotFound)
		}
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	post.ID = bson.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		log.Printf("Error creating post: %v", err)
		return nil, err
	}

	return post, nil
}
