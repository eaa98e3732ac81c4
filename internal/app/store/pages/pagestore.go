// internal/app/store/pages/pagestore.go
package pagestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no page has the slug.
var ErrNotFound = apperr.NotFound("Page")

// Store provides access to the pages collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new page store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pages")}
}

// GetBySlug returns a page by its slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&page)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Upsert creates or updates a page by slug and returns the stored page.
// Content is sanitized before it is written.
func (s *Store) Upsert(ctx context.Context, page models.Page) (*models.Page, error) {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"title":           page.Title,
			"content":         htmlsanitize.Sanitize(page.Content),
			"seo":             page.SEO,
			"updated_at":      now,
			"updated_by_id":   page.UpdatedByID,
			"updated_by_name": page.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id":  primitive.NewObjectID(),
			"slug": page.Slug,
		},
	}

	var out models.Page
	err := s.c.FindOneAndUpdate(ctx, bson.M{"slug": page.Slug}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAll returns all pages by slug.
func (s *Store) GetAll(ctx context.Context) ([]models.Page, error) {
	return storeutil.FindAll[models.Page](ctx, s.c, bson.M{}, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
}

// Exists checks if a page with the given slug exists.
func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
