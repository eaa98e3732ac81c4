// internal/domain/models/page.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is an admin-editable static page (about, contact, terms, privacy).
type Page struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Slug    string             `bson:"slug" json:"slug"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"` // sanitized HTML
	SEO     SEOMeta            `bson:"seo,omitempty" json:"seo"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updatedById,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updatedByName,omitempty"`
}

// Page slugs
const (
	PageSlugAbout   = "about"
	PageSlugContact = "contact"
	PageSlugTerms   = "terms"
	PageSlugPrivacy = "privacy"
)

// AllPageSlugs returns all valid page slugs.
func AllPageSlugs() []string {
	return []string{
		PageSlugAbout,
		PageSlugContact,
		PageSlugTerms,
		PageSlugPrivacy,
	}
}

// IsValidPageSlug checks if a slug is valid.
func IsValidPageSlug(slug string) bool {
	for _, s := range AllPageSlugs() {
		if s == slug {
			return true
		}
	}
	return false
}
