// internal/domain/models/subscriber.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscriber statuses
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email          string             `bson:"email" json:"email"` // unique, lowercase
	Status         string             `bson:"status" json:"status"`
	Source         string             `bson:"source,omitempty" json:"source,omitempty"` // footer, popup, blog, ...
	SubscribedAt   time.Time          `bson:"subscribed_at" json:"subscribedAt"`
	UnsubscribedAt *time.Time         `bson:"unsubscribed_at,omitempty" json:"unsubscribedAt,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}
