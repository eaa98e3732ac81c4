// internal/app/store/bookings/bookingstore.go
package bookingstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a booking id does not resolve.
var ErrNotFound = apperr.NotFound("Booking")

// Store provides access to the bookings collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new booking store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

// Filter narrows List.
type Filter struct {
	Status string
	CarID  primitive.ObjectID
}

// List returns bookings newest first with the referenced car joined in.
// Bookings whose car was deleted are returned with a nil Car.
func (s *Store) List(ctx context.Context, f Filter) ([]models.BookingWithCar, error) {
	match := bson.M{}
	if f.Status != "" {
		match["status"] = f.Status
	}
	if !f.CarID.IsZero() {
		match["car_id"] = f.CarID
	}
	return s.aggregate(ctx, match)
}

// GetByID retrieves a booking with its car.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BookingWithCar, error) {
	out, err := s.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *Store) aggregate(ctx context.Context, match bson.M) ([]models.BookingWithCar, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: storeutil.NewestFirst()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "cars",
			"localField":   "car_id",
			"foreignField": "_id",
			"as":           "car",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$car",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.BookingWithCar{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.BookingWithCar{}
	}
	return out, nil
}

// CreateInput contains the input for creating a booking. The caller has
// checked that CarID refers to a stored car.
type CreateInput struct {
	CarID           primitive.ObjectID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PickupDate      time.Time
	ReturnDate      time.Time
	PickupLocation  string
	DropoffLocation string
	Status          models.BookingStatus
	Notes           string
	TotalPrice      float64
}

// Create inserts a booking. An empty status becomes pending.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	now := time.Now().UTC()
	b := models.Booking{
		ID:              primitive.NewObjectID(),
		CarID:           in.CarID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		PickupDate:      in.PickupDate.UTC(),
		ReturnDate:      in.ReturnDate.UTC(),
		PickupLocation:  in.PickupLocation,
		DropoffLocation: in.DropoffLocation,
		Status:          in.Status,
		Notes:           in.Notes,
		TotalPrice:      in.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateInput holds the fields to change. Nil fields are left as stored.
type UpdateInput struct {
	CarID           *primitive.ObjectID
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	PickupDate      *time.Time
	ReturnDate      *time.Time
	PickupLocation  *string
	DropoffLocation *string
	Status          *models.BookingStatus
	Notes           *string
	TotalPrice      *float64
}

// Update applies the supplied fields and returns the updated booking.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Booking, error) {
	set := bson.M{}
	if in.CarID != nil {
		set["car_id"] = *in.CarID
	}
	if in.CustomerName != nil {
		set["customer_name"] = *in.CustomerName
	}
	if in.CustomerEmail != nil {
		set["customer_email"] = *in.CustomerEmail
	}
	if in.CustomerPhone != nil {
		set["customer_phone"] = *in.CustomerPhone
	}
	if in.PickupDate != nil {
		set["pickup_date"] = in.PickupDate.UTC()
	}
	if in.ReturnDate != nil {
		set["return_date"] = in.ReturnDate.UTC()
	}
	if in.PickupLocation != nil {
		set["pickup_location"] = *in.PickupLocation
	}
	if in.DropoffLocation != nil {
		set["dropoff_location"] = *in.DropoffLocation
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Notes != nil {
		set["notes"] = *in.Notes
	}
	if in.TotalPrice != nil {
		set["total_price"] = *in.TotalPrice
	}
	return storeutil.SetByID[models.Booking](ctx, s.c, id, set, ErrNotFound, nil)
}

// Delete removes a booking. Deleting a missing booking succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// CompleteElapsed marks confirmed bookings whose return date is before now
// as completed and reports how many changed.
func (s *Store) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.BookingConfirmed, "return_date": bson.M{"$lt": now.UTC()}},
		bson.M{"$set": bson.M{"status": models.BookingCompleted, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
