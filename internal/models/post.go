package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a titled set of uploaded images tagged with one or more geometries
type Post struct {
	ID                     bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title                  string        `bson:"title" json:"title"`
	Description            string        `bson:"description" json:"description"`
	Images                 []Image       `bson:"images" json:"images"`
	Locations              []Location    `bson:"locations" json:"locations"`
	UnrecognizedGeometries []RawGeometry `bson:"unrecognizedGeometries,omitempty" json:"unrecognizedGeometries,omitempty"`
	BBox                   []float64     `bson:"bbox,omitempty" json:"bbox,omitempty"` // [minLng, minLat, maxLng, maxLat]
	Geohash                string        `bson:"geohash,omitempty" json:"geohash,omitempty"`
	UserID                 string        `bson:"userId" json:"userId"`
	CreatedAt              time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Image is the stored metadata of one uploaded file
type Image struct {
	Key         string `bson:"key" json:"key"`                 // Object key assigned by the uploader
	Bucket      string `bson:"bucket" json:"bucket"`           // Bucket the object lives in
	FileName    string `bson:"fileName" json:"fileName"`       // Original filename
	ContentType string `bson:"contentType" json:"contentType"` // MIME type
	Size        int64  `bson:"size" json:"size"`               // Size in bytes
	Checksum    string `bson:"checksum" json:"checksum"`       // MD5 checksum
}

// Location is a GeoJSON geometry. Point coordinates are always [lng, lat];
// LineString and Polygon coordinates are stored as received.
type Location struct {
	Type        GeometryKind `bson:"type" json:"type"`
	Coordinates any          `bson:"coordinates" json:"coordinates"`
}

// RawGeometry keeps a geometry whose type is not one of GeometryKinds.
// It is stored outside Locations so the 2dsphere index never sees it.
type RawGeometry struct {
	FeatureIndex int    `bson:"featureIndex" json:"featureIndex"`
	Type         string `bson:"type" json:"type"`
	Coordinates  any    `bson:"coordinates" json:"coordinates"`
}
