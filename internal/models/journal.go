package models

import "time"

// PendingUpload records the object keys of an ingestion that has started
// uploading but has not been saved yet. An entry that outlives its request
// names objects that no Post references.
type PendingUpload struct {
	Token     string    `json:"token"`
	Bucket    string    `json:"bucket"`
	Keys      []string  `json:"keys"`
	UserID    string    `json:"userId"`
	StartedAt time.Time `json:"startedAt"`
}
