// internal/app/store/seosettings/seosettingsstore.go
package seosettingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the seo_settings collection.
// There is a single settings document, found by {singleton: true}.
type Store struct {
	c *mongo.Collection
}

// New creates a new SEO settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("seo_settings")}
}

var singleton = bson.M{"singleton": true}

// Get returns the saved settings, or the defaults when none are saved.
// Empty title templates fall back to the defaults.
func (s *Store) Get(ctx context.Context) (*models.SEOSettings, error) {
	var settings models.SEOSettings
	err := s.c.FindOne(ctx, singleton).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultSEOSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	if settings.LocationTitleTemplate == "" {
		settings.LocationTitleTemplate = models.DefaultLocationTitleTemplate
	}
	if settings.ServiceTitleTemplate == "" {
		settings.ServiceTitleTemplate = models.DefaultServiceTitleTemplate
	}
	return &settings, nil
}

// Save writes settings, creating the document on first save.
func (s *Store) Save(ctx context.Context, settings models.SEOSettings) (*models.SEOSettings, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"singleton":                true,
			"site_name":                settings.SiteName,
			"site_description":         settings.SiteDescription,
			"default_meta_title":       settings.DefaultMetaTitle,
			"default_meta_description": settings.DefaultMetaDescription,
			"keywords":                 settings.Keywords,
			"og_image":                 settings.OGImage,
			"twitter_handle":           settings.TwitterHandle,
			"google_analytics_id":      settings.GoogleAnalyticsID,
			"location_title_template":  settings.LocationTitleTemplate,
			"service_title_template":   settings.ServiceTitleTemplate,
			"updated_at":               now,
			"updated_by_id":            settings.UpdatedByID,
			"updated_by_name":          settings.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}
	if _, err := s.c.UpdateOne(ctx, singleton, update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}

// Exists checks if settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, singleton)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
