// internal/app/store/cars/carstore.go
package carstore

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

// ErrNotFound is returned when a car id does not resolve.
var ErrNotFound = apperr.NotFound("Car")

// Store provides access to the cars collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new car store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cars")}
}

// Filter narrows List. Nil fields are not applied.
type Filter struct {
	Type      string
	Available *bool
	Featured  *bool
	Limit     int64
}

// List returns cars matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Car, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Available != nil {
		filter["available"] = *f.Available
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	opts := options.Find().SetSort(storeutil.NewestFirst())
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return storeutil.FindAll[models.Car](ctx, s.c, filter, opts)
}

// GetByID retrieves a car by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error) {
	return storeutil.FindByID[models.Car](ctx, s.c, id, ErrNotFound)
}

// Exists reports whether a car with id is stored.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateInput contains the input for creating a car. Either Model or
// CarModel may be given; the other is filled from it.
type CreateInput struct {
	Model         string
	CarModel      string
	Type          models.CarType
	PricePerDay   float64
	PricePerWeek  float64
	PricePerMonth float64
	Deposit       float64
	Available     bool
	Featured      bool
	Seats         int
	Transmission  string
	Fuel          string
	Features      []string
	Images        []string
}

// Create inserts a new car.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Car, error) {
	now := time.Now().UTC()
	car := models.Car{
		ID:            primitive.NewObjectID(),
		Model:         in.Model,
		CarModel:      in.CarModel,
		Type:          in.Type,
		PricePerDay:   in.PricePerDay,
		PricePerWeek:  in.PricePerWeek,
		PricePerMonth: in.PricePerMonth,
		Deposit:       in.Deposit,
		Available:     in.Available,
		Featured:      in.Featured,
		Seats:         in.Seats,
		Transmission:  in.Transmission,
		Fuel:          in.Fuel,
		Features:      nonNil(in.Features),
		Images:        nonNil(in.Images),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	car.SyncModelAliases()

	if _, err := s.c.InsertOne(ctx, car); err != nil {
		return nil, err
	}
	return &car, nil
}

// UpdateInput holds the fields to change. Nil fields are left as stored.
type UpdateInput struct {
	Model         *string
	CarModel      *string
	Type          *models.CarType
	PricePerDay   *float64
	PricePerWeek  *float64
	PricePerMonth *float64
	Deposit       *float64
	Available     *bool
	Featured      *bool
	Seats         *int
	Transmission  *string
	Fuel          *string
	Features      []string
	Images        []string
}

// Update applies the supplied fields and returns the updated car.
// Supplying only one of Model/CarModel updates both.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Car, error) {
	set := bson.M{}
	switch {
	case in.Model != nil && in.CarModel != nil:
		set["model"] = *in.Model
		set["car_model"] = *in.CarModel
	case in.Model != nil:
		set["model"] = *in.Model
		set["car_model"] = *in.Model
	case in.CarModel != nil:
		set["model"] = *in.CarModel
		set["car_model"] = *in.CarModel
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.PricePerDay != nil {
		set["price_per_day"] = *in.PricePerDay
	}
	if in.PricePerWeek != nil {
		set["price_per_week"] = *in.PricePerWeek
	}
	if in.PricePerMonth != nil {
		set["price_per_month"] = *in.PricePerMonth
	}
	if in.Deposit != nil {
		set["deposit"] = *in.Deposit
	}
	if in.Available != nil {
		set["available"] = *in.Available
	}
	if in.Featured != nil {
		set["featured"] = *in.Featured
	}
	if in.Seats != nil {
		set["seats"] = *in.Seats
	}
	if in.Transmission != nil {
		set["transmission"] = *in.Transmission
	}
	if in.Fuel != nil {
		set["fuel"] = *in.Fuel
	}
	if in.Features != nil {
		set["features"] = in.Features
	}
	if in.Images != nil {
		set["images"] = in.Images
	}
	return storeutil.SetByID[models.Car](ctx, s.c, id, set, ErrNotFound, nil)
}

// Delete removes a car. Deleting a missing car succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return storeutil.DeleteByID(ctx, s.c, id)
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
