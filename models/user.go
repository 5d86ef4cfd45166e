package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}

// AuthenticatedUser is the minimal identity the workspace core depends on.
// Handlers build it from token claims; nothing below the handler layer sees
// the provider-specific user shape.
type AuthenticatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
