// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a back-office account. Only role "admin" may mutate content.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"` // unique, lowercase
	FullName     string             `bson:"full_name" json:"fullName"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"` // bcrypt hash (never in JSON)
	Role         string             `bson:"role" json:"role"`
	Status       string             `bson:"status" json:"status"` // active, disabled

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User statuses
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
