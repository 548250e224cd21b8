package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies what a user is allowed to do on the platform.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleSalesRep Role = "salesRep"
	RoleManager  Role = "brooderManager"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleSalesRep, RoleManager:
		return true
	}
	return false
}

// User is a platform account. Farmers additionally carry a NIN and the
// recommender details collected at signup.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	PasswordHash    string             `bson:"password_hash" json:"-"`
	Role            Role               `bson:"role" json:"role"`
	NIN             string             `bson:"nin,omitempty" json:"nin,omitempty"`
	RecommenderName string             `bson:"recommender_name,omitempty" json:"recommender_name,omitempty"`
	RecommenderNIN  string             `bson:"recommender_nin,omitempty" json:"recommender_nin,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
