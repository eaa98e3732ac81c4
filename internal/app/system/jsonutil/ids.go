package jsonutil

import (
	"strings"

	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a hex id from field into an ObjectID. Empty and malformed
// ids come back as validation errors naming field.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return primitive.NilObjectID, apperr.Validation(field, "ID is required")
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(field, "Invalid ID")
	}
	return id, nil
}

// IDRef is embedded in update bodies. Admin clients send the document id
// as either "_id" or "id".
type IDRef struct {
	UnderscoreID string `json:"_id"`
	ID           string `json:"id"`
}

// ObjectID returns the referenced id, preferring "_id".
func (ref IDRef) ObjectID() (primitive.ObjectID, error) {
	if ref.UnderscoreID != "" {
		return ParseID("_id", ref.UnderscoreID)
	}
	return ParseID("id", ref.ID)
}
