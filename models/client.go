package models

// Client is a top-level customer organization. It exclusively owns its
// requesters; deleting a client removes everything underneath it.
type Client struct {
	ID                     string      `bson:"id" json:"id"`
	Name                   string      `bson:"name" json:"name"`
	BusinessRegistrationNo string      `bson:"businessRegistrationNo,omitempty" json:"businessRegistrationNo,omitempty"`
	Address                string      `bson:"address,omitempty" json:"address,omitempty"`
	Requesters             []Requester `bson:"requesters" json:"requesters"`
}

// Requester is a named contact within a client who originates projects.
type Requester struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Department string    `bson:"department,omitempty" json:"department,omitempty"`
	Projects   []Project `bson:"projects" json:"projects"`
}
