package repository

import (
	"context"
	"fmt"
	"geopost-service/internal/models"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodb "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	collection *mongodb.Collection
}

func NewUserRepository(database *mongodb.Database) *UserRepository {
	return &UserRepository{
		collection: database.Collection(models.UserCollection),
	}
}

func (r *UserRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, models.GetUserIndexes())
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Upsert inserts the user or refreshes its username and email
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	if err := user.Normalize(); err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"username":  user.Username,
			"email":     user.Email,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": user.ID},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return nil
}

// Exists reports whether a user with the given ID is known
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
