// internal/domain/models/faq.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FAQ is a question/answer pair shown on the FAQ page and home page.
// Lists are ordered by Order ascending; equal orders keep insertion order.
type FAQ struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Question  string             `bson:"question" json:"question"`
	Answer    string             `bson:"answer" json:"answer"`
	Order     int                `bson:"order" json:"order"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
