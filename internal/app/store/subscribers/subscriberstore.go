// internal/app/store/subscribers/subscriberstore.go
package subscriberstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the subscribers collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new subscriber store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("subscribers")}
}

// Subscribe records email as an active subscriber. Subscribing again
// reactivates an unsubscribed address and keeps the original created_at.
func (s *Store) Subscribe(ctx context.Context, email, source string) (*models.Subscriber, error) {
	email = normalize.Email(email)
	now := time.Now().UTC()

	var sub models.Subscriber
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"status":        models.SubscriberActive,
				"source":        source,
				"subscribed_at": now,
				"updated_at":    now,
			},
			"$unset":       bson.M{"unsubscribed_at": ""},
			"$setOnInsert": bson.M{"email": email, "created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Unsubscribe marks email as unsubscribed. Unknown addresses are ignored.
func (s *Store) Unsubscribe(ctx context.Context, email string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{
			"status":          models.SubscriberUnsubscribed,
			"unsubscribed_at": now,
			"updated_at":      now,
		}},
	)
	return err
}

// List returns subscribers newest first, optionally only those with status.
func (s *Store) List(ctx context.Context, status string) ([]models.Subscriber, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return storeutil.FindAll[models.Subscriber](ctx, s.c, filter, options.Find().SetSort(storeutil.NewestFirst()))
}

// CountActive returns the number of active subscribers.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.SubscriberActive})
}
