// internal/domain/models/landing.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a city or branch with its own SEO landing page.
type Location struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"` // unique
	City        string             `bson:"city,omitempty" json:"city,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	Order       int                `bson:"order" json:"order"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Service is an offering (airport pickup, long-term rental, ...) with its own
// SEO landing page.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"` // unique
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	Order       int                `bson:"order" json:"order"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// FillTemplate replaces {key} placeholders in tmpl with values from vars.
// Unknown placeholders are left untouched.
func FillTemplate(tmpl string, vars map[string]string) string {
	if tmpl == "" || len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
