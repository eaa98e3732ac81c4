// internal/domain/models/seosettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SEOSettings holds site-wide metadata. There is only one document.
type SEOSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	SiteName               string   `bson:"site_name" json:"siteName"`
	SiteDescription        string   `bson:"site_description,omitempty" json:"siteDescription,omitempty"`
	DefaultMetaTitle       string   `bson:"default_meta_title,omitempty" json:"defaultMetaTitle,omitempty"`
	DefaultMetaDescription string   `bson:"default_meta_description,omitempty" json:"defaultMetaDescription,omitempty"`
	Keywords               []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
	OGImage                string   `bson:"og_image,omitempty" json:"ogImage,omitempty"`
	TwitterHandle          string   `bson:"twitter_handle,omitempty" json:"twitterHandle,omitempty"`
	GoogleAnalyticsID      string   `bson:"google_analytics_id,omitempty" json:"googleAnalyticsId,omitempty"`

	// Landing page title templates; {name} and {city} are substituted.
	LocationTitleTemplate string `bson:"location_title_template,omitempty" json:"locationTitleTemplate,omitempty"`
	ServiceTitleTemplate  string `bson:"service_title_template,omitempty" json:"serviceTitleTemplate,omitempty"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updatedById,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updatedByName,omitempty"`
}

// Defaults used when no settings document exists yet.
const (
	DefaultSiteName              = "StrataRent"
	DefaultSiteDescription       = "Affordable car rental with free cancellation and no hidden fees."
	DefaultLocationTitleTemplate = "Car Rental in {city} | {name}"
	DefaultServiceTitleTemplate  = "{name} | Car Rental Services"
)

// DefaultSEOSettings returns the settings served before an admin saves any.
func DefaultSEOSettings() *SEOSettings {
	return &SEOSettings{
		SiteName:               DefaultSiteName,
		SiteDescription:        DefaultSiteDescription,
		DefaultMetaTitle:       DefaultSiteName,
		DefaultMetaDescription: DefaultSiteDescription,
		LocationTitleTemplate:  DefaultLocationTitleTemplate,
		ServiceTitleTemplate:   DefaultServiceTitleTemplate,
	}
}

// PageMeta is the derived metadata the rendering layer puts in <head>.
type PageMeta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	OGImage     string   `json:"ogImage,omitempty"`
	Canonical   string   `json:"canonical,omitempty"`
}
