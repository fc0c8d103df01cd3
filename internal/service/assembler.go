package service

import (
	"geopost-service/internal/geo"
	"geopost-service/internal/models"
	"strings"
)

// PostFields are the scalar fields of a submission
type PostFields struct {
	Title       string
	Description string
	UserID      string
}

// normalize trims every field and reports the first empty one
func (f PostFields) normalize() (PostFields, error) {
	out := PostFields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		UserID:      strings.TrimSpace(f.UserID),
	}

	switch {
	case out.Title == "":
		return out, missingField("title")
	case out.Description == "":
		return out, missingField("description")
	case out.UserID == "":
		return out, missingField("userId")
	}
	return out, nil
}

// AssemblePost builds an unsaved post. Geometries of unknown kind are kept
// in UnrecognizedGeometries, never in Locations.
func AssemblePost(fields PostFields, images []models.Image, geometries []geo.Geometry) (*models.Post, error) {
	fields, err := fields.normalize()
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, newError(KindNoFilesProvided, "At least one file is required", nil)
	}

	// locations must encode as an array, never null
	locations := make([]models.Location, 0, len(geometries))
	var unrecognized []models.RawGeometry
	for i, g := range geometries {
		if !g.Known() {
			unrecognized = append(unrecognized, models.RawGeometry{
				FeatureIndex: i,
				Type:         g.Type,
				Coordinates:  g.Coordinates,
			})
			continue
		}
		locations = append(locations, g.Location())
	}

	post := &models.Post{
		Title:                  fields.Title,
		Description:            fields.Description,
		Images:                 append([]models.Image(nil), images...),
		Locations:              locations,
		UnrecognizedGeometries: unrecognized,
		UserID:                 fields.UserID,
	}

	if bound, ok := geo.Bounds(geometries); ok {
		post.BBox = geo.BBox(bound)
		post.Geohash = geo.Geohash(bound)
	}

	return post, nil
}
