// internal/app/store/services/servicestore.go
package servicestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/indexes"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a service does not resolve.
	ErrNotFound = apperr.NotFound("Service")
	// ErrDuplicateSlug is returned when another service uses the slug.
	ErrDuplicateSlug = apperr.Conflict("A service with this slug already exists")
)

// Store provides access to the services collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new service store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("services")}
}

// List returns services in display order.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	return storeutil.FindAll[models.Service](ctx, s.c, filter, options.Find().SetSort(storeutil.SortOrderThenID()))
}

// GetBySlug loads an active service by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var l models.Service
	err := s.c.FindOne(ctx, bson.M{"slug": normalize.Slug(slug), "active": true}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a service. An empty slug is derived from the name.
func (s *Store) Create(ctx context.Context, l models.Service) (*models.Service, error) {
	if l.Slug == "" {
		l.Slug = l.Name
	}
	l.Slug = normalize.Slug(l.Slug)
	if l.Slug == "" {
		return nil, apperr.Validation("slug", "Slug is required")
	}
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.CreatedAt, l.UpdatedAt = now, now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		if indexes.IsDuplicateKeyErr(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	return &l, nil
}

// Update applies a partial $set built by the caller from validated input.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Service, error) {
	if v, ok := set["slug"].(string); ok {
		set["slug"] = normalize.Slug(v)
	}
	return storeutil.SetByID[models.Service](ctx, s.c, id, set, ErrNotFound, ErrDuplicateSlug)
}

// Delete removes a service. Deleting a missing service succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return storeutil.DeleteByID(ctx, s.c, id)
}
