// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Attempt tracks failed login attempts for one email.
type Attempt struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	AttemptCount int                `bson:"attempt_count"` // failures in the current window
	WindowStart  time.Time          `bson:"window_start"`
	LockedUntil  *time.Time         `bson:"locked_until"` // nil when not locked
	LastAttempt  time.Time          `bson:"last_attempt"` // TTL index field
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Store tracks failed logins in the login_attempts collection.
type Store struct {
	c               *mongo.Collection
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

// New creates a new rate limit Store with the given configuration.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	return &Store{
		c:               db.Collection("login_attempts"),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		now:             time.Now,
	}
}

// CheckAllowed reports whether a login for email may be attempted.
// remaining is -1 while locked. Lookup errors fail open.
func (s *Store) CheckAllowed(ctx context.Context, email string) (allowed bool, remaining int, lockedUntil *time.Time) {
	email = normalize.Email(email)
	now := s.now()

	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&attempt)
	if err != nil {
		return true, s.maxAttempts, nil
	}

	if attempt.LockedUntil != nil && now.Before(*attempt.LockedUntil) {
		return false, -1, attempt.LockedUntil
	}
	if now.After(attempt.WindowStart.Add(s.windowDuration)) {
		return true, s.maxAttempts, nil
	}

	remaining = s.maxAttempts - attempt.AttemptCount
	if remaining <= 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

// RecordFailure counts a failed login for email and reports whether it
// triggered a lockout.
func (s *Store) RecordFailure(ctx context.Context, email string) (lockedOut bool, lockedUntil *time.Time) {
	email = normalize.Email(email)
	now := s.now()

	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&attempt)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		attempt = Attempt{
			ID:          primitive.NewObjectID(),
			Email:       email,
			WindowStart: now,
			CreatedAt:   now,
		}
	case err != nil:
		return false, nil
	case now.After(attempt.WindowStart.Add(s.windowDuration)):
		attempt.AttemptCount = 0
		attempt.WindowStart = now
		attempt.LockedUntil = nil
	}

	attempt.AttemptCount++
	attempt.LastAttempt = now
	attempt.UpdatedAt = now
	if attempt.AttemptCount >= s.maxAttempts {
		until := now.Add(s.lockoutDuration)
		attempt.LockedUntil = &until
		lockedOut = true
		lockedUntil = &until
	}

	_, _ = s.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"attempt_count": attempt.AttemptCount,
				"window_start":  attempt.WindowStart,
				"locked_until":  attempt.LockedUntil,
				"last_attempt":  attempt.LastAttempt,
				"updated_at":    attempt.UpdatedAt,
			},
			"$setOnInsert": bson.M{"_id": attempt.ID, "created_at": attempt.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	return lockedOut, lockedUntil
}

// ClearOnSuccess removes the record for email after a successful login.
func (s *Store) ClearOnSuccess(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": normalize.Email(email)})
	return err
}

// GetAttempt returns the current record for email, or nil when there is none.
func (s *Store) GetAttempt(ctx context.Context, email string) (*Attempt, error) {
	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&attempt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
