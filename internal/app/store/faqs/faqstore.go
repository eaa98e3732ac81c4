// internal/app/store/faqs/faqstore.go
package faqstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a FAQ id does not resolve.
var ErrNotFound = apperr.NotFound("FAQ")

// Store provides access to the faqs collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new FAQ store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("faqs")}
}

// List returns FAQs by order ascending. Equal orders come back in insertion
// order. When activeOnly is set inactive entries are skipped.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.FAQ, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	return storeutil.FindAll[models.FAQ](ctx, s.c, filter, options.Find().SetSort(storeutil.SortOrderThenID()))
}

// GetByID retrieves a FAQ by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FAQ, error) {
	return storeutil.FindByID[models.FAQ](ctx, s.c, id, ErrNotFound)
}

// CreateInput contains the input for creating a FAQ.
type CreateInput struct {
	Question string
	Answer   string
	Order    int
	Active   bool
}

// Create inserts a FAQ.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.FAQ, error) {
	now := time.Now().UTC()
	f := models.FAQ{
		ID:        primitive.NewObjectID(),
		Question:  in.Question,
		Answer:    in.Answer,
		Order:     in.Order,
		Active:    in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateInput holds the fields to change. Nil fields are left as stored.
type UpdateInput struct {
	Question *string
	Answer   *string
	Order    *int
	Active   *bool
}

// Update applies the supplied fields and returns the updated FAQ.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.FAQ, error) {
	set := bson.M{}
	if in.Question != nil {
		set["question"] = *in.Question
	}
	if in.Answer != nil {
		set["answer"] = *in.Answer
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}
	if in.Active != nil {
		set["active"] = *in.Active
	}
	return storeutil.SetByID[models.FAQ](ctx, s.c, id, set, ErrNotFound, nil)
}

// Delete removes a FAQ. Deleting a missing FAQ succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return storeutil.DeleteByID(ctx, s.c, id)
}
