package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	PostCollection = "posts"
	UserCollection = "users"
)

// GetPostValidator returns the $jsonSchema applied to the posts collection
func GetPostValidator() bson.M {
	nonEmptyString := bson.M{"bsonType": "string", "minLength": 1}

	kinds := make(bson.A, 0, len(GeometryKinds))
	for _, kind := range GeometryKinds {
		kinds = append(kinds, string(kind))
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "description", "images", "locations", "userId", "createdAt", "updatedAt"},
			"properties": bson.M{
				"title":       nonEmptyString,
				"description": nonEmptyString,
				"userId":      nonEmptyString,
				"images": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"key", "fileName", "contentType", "size"},
						"properties": bson.M{
							"key":  nonEmptyString,
							"size": bson.M{"bsonType": "long", "minimum": 0},
						},
					},
				},
				"locations": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"type", "coordinates"},
						"properties": bson.M{
							"type":        bson.M{"enum": kinds},
							"coordinates": bson.M{"bsonType": "array"},
						},
					},
				},
				"createdAt": bson.M{"bsonType": "date"},
				"updatedAt": bson.M{"bsonType": "date"},
			},
		},
	}
}

func GetPostIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "locations", Value: "2dsphere"}},
			Options: options.Index().SetName("locations_2dsphere"),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "geohash", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
}

func GetUserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
