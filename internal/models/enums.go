package models

type GeometryKind string

const (
	GeometryPoint      GeometryKind = "Point"
	GeometryLineString GeometryKind = "LineString"
	GeometryPolygon    GeometryKind = "Polygon"
)

// GeometryKinds lists the kinds accepted in Post.Locations, in schema order
var GeometryKinds = []GeometryKind{GeometryPoint, GeometryLineString, GeometryPolygon}

type EventType string

const (
	EventTypePostCreated    EventType = "post.created"
	EventTypeUserRegistered EventType = "user.registered"
	EventTypeUserUpdated    EventType = "user.updated"
)
