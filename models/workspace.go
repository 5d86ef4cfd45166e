package models

import "time"

// Workspace is the single shared document holding the entire client tree.
// The metadata fields are informational: version increases monotonically on
// every save but is never compared before an overwrite (last write wins).
type Workspace struct {
	ID           string    `bson:"_id" json:"id"`
	Clients      []Client  `bson:"clients" json:"clients"`
	LastModified time.Time `bson:"lastModified" json:"lastModified"`
	ModifiedBy   string    `bson:"modifiedBy" json:"modifiedBy"`
	Version      int64     `bson:"version" json:"version"`
}
