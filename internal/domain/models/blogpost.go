// internal/domain/models/blogpost.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SEOMeta holds per-document search metadata.
type SEOMeta struct {
	MetaTitle       string   `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
	OGImage         string   `bson:"og_image,omitempty" json:"ogImage,omitempty"`
}

// BlogPost is an article on the public blog.
type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"` // unique
	Content     string             `bson:"content" json:"content"` // sanitized HTML
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	CoverImage  string             `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Categories  []string           `bson:"categories" json:"categories"`
	Tags        []string           `bson:"tags" json:"tags"`
	Published   bool               `bson:"published" json:"published"`
	PublishedAt *time.Time         `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	SEO         SEOMeta            `bson:"seo" json:"seo"`
	Views       int64              `bson:"views" json:"views"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
