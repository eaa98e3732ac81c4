// internal/app/store/notifications/notificationstore.go
package notificationstore

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

// ErrNotFound is returned when a notification id does not resolve.
var ErrNotFound = apperr.NotFound("Notification")

// Store provides access to the notifications collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new notification store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

func byPriority() bson.D {
	return bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// List returns every notification, highest priority first, newest first
// within a priority.
func (s *Store) List(ctx context.Context) ([]models.Notification, error) {
	return storeutil.FindAll[models.Notification](ctx, s.c, bson.M{}, options.Find().SetSort(byPriority()))
}

// SelectActive returns the notifications shown at location at time now:
// switched on, targeting location, started, and not yet ended. A limit of
// zero or less returns every match.
func (s *Store) SelectActive(ctx context.Context, location string, now time.Time, limit int64) ([]models.Notification, error) {
	filter := bson.M{
		"active":           true,
		"display_location": location,
		"start_date":       bson.M{"$lte": now},
		"$or": bson.A{
			bson.M{"end_date": nil},
			bson.M{"end_date": bson.M{"$gte": now}},
		},
	}
	opts := options.Find().SetSort(byPriority())
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return storeutil.FindAll[models.Notification](ctx, s.c, filter, opts)
}

// GetByID retrieves a notification by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	return storeutil.FindByID[models.Notification](ctx, s.c, id, ErrNotFound)
}

// CreateInput contains the input for creating a notification.
type CreateInput struct {
	Title           string
	Message         string
	Type            models.NotificationType
	DisplayLocation []string
	Active          bool
	StartDate       time.Time
	EndDate         *time.Time
	Link            string
	ButtonText      string
	BackgroundColor string
	TextColor       string
	Priority        int
}

// Create inserts a notification. Priority is clamped into range; an empty
// type becomes info and an empty placement list becomes the banner.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Notification, error) {
	now := time.Now().UTC()
	n := models.Notification{
		ID:              primitive.NewObjectID(),
		Title:           in.Title,
		Message:         in.Message,
		Type:            in.Type,
		DisplayLocation: in.DisplayLocation,
		Active:          in.Active,
		StartDate:       in.StartDate.UTC(),
		EndDate:         in.EndDate,
		Link:            in.Link,
		ButtonText:      in.ButtonText,
		BackgroundColor: in.BackgroundColor,
		TextColor:       in.TextColor,
		Priority:        models.ClampPriority(in.Priority),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	if len(n.DisplayLocation) == 0 {
		n.DisplayLocation = []string{models.LocationBanner}
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateInput holds the fields to change. Nil fields are left as stored.
// ClearEndDate removes the end date, making the window open-ended.
type UpdateInput struct {
	Title           *string
	Message         *string
	Type            *models.NotificationType
	DisplayLocation []string
	Active          *bool
	StartDate       *time.Time
	EndDate         *time.Time
	ClearEndDate    bool
	Link            *string
	ButtonText      *string
	BackgroundColor *string
	TextColor       *string
	Priority        *int
}

// Update applies the supplied fields and returns the updated notification.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Notification, error) {
	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Message != nil {
		set["message"] = *in.Message
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if len(in.DisplayLocation) > 0 {
		set["display_location"] = in.DisplayLocation
	}
	if in.Active != nil {
		set["active"] = *in.Active
	}
	if in.StartDate != nil {
		set["start_date"] = in.StartDate.UTC()
	}
	switch {
	case in.ClearEndDate:
		set["end_date"] = nil
	case in.EndDate != nil:
		set["end_date"] = in.EndDate.UTC()
	}
	if in.Link != nil {
		set["link"] = *in.Link
	}
	if in.ButtonText != nil {
		set["button_text"] = *in.ButtonText
	}
	if in.BackgroundColor != nil {
		set["background_color"] = *in.BackgroundColor
	}
	if in.TextColor != nil {
		set["text_color"] = *in.TextColor
	}
	if in.Priority != nil {
		set["priority"] = models.ClampPriority(*in.Priority)
	}
	return storeutil.SetByID[models.Notification](ctx, s.c, id, set, ErrNotFound, nil)
}

// Delete removes a notification. Deleting a missing one succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return storeutil.DeleteByID(ctx, s.c, id)
}
