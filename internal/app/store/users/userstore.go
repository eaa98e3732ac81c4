// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrNotFound is returned when a user lookup finds nothing.
	ErrNotFound = apperr.NotFound("User")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = apperr.Conflict("A user with this email already exists")
	errBadRole        = apperr.Validation("role", "Invalid role")
	errBadStatus      = apperr.Validation("status", `Status must be "active" or "disabled"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by email, case-insensitively.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByIDs loads the users with the given ids. Missing ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return storeutil.FindAll[models.User](ctx, s.c, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// PasswordHash must already be a bcrypt hash.
func (s *Store) Create(ctx context.Context, u models.User) (*models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)

	if u.Status == "" {
		u.Status = models.StatusActive
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.IsValidRole(u.Role) {
		return nil, errBadRole
	}
	if u.Status != models.StatusActive && u.Status != models.StatusDisabled {
		return nil, errBadStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// SetPasswordHash replaces a user's password hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLastLogin stamps the time of a successful login.
func (s *Store) SetLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login_at": at.UTC()}})
	return err
}

// CountActiveAdmins returns the number of users with role=admin and status=active.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"role":   models.RoleAdmin,
		"status": models.StatusActive,
	})
}
