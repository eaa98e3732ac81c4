// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, cs := range collectionSchemas() {
		if _, err := ensureCollection(ctx, db, cs.name); err != nil {
			problems = append(problems, cs.name+": "+err.Error())
			continue
		}
		if cs.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, cs.name, cs.schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", cs.name))
				continue
			}
			problems = append(problems, cs.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionSchema struct {
	name   string
	schema bson.M
}

func collectionSchemas() []collectionSchema {
	return []collectionSchema{
		{"users", usersSchema()},
		{"cars", carsSchema()},
		{"blog_posts", blogPostsSchema()},
		{"faqs", faqsSchema()},
		{"notifications", notificationsSchema()},
		{"bookings", bookingsSchema()},
		{"locations", nil},
		{"services", nil},
		{"subscribers", nil},
		{"menus", nil},
		{"seo_settings", nil},
		{"pages", nil},
		{"audit_logs", nil},
	}
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func jsonSchema(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return jsonSchema(bson.A{"email", "role", "status"}, bson.M{
		"email":     nonBlank,
		"full_name": bson.M{"bsonType": "string"},
		"role":      bson.M{"enum": bson.A{models.RoleAdmin, models.RoleUser}},
		"status":    bson.M{"enum": bson.A{models.StatusActive, models.StatusDisabled}},
	})
}

func carsSchema() bson.M {
	types := bson.A{}
	for _, t := range models.AllCarTypes() {
		types = append(types, string(t))
	}
	return jsonSchema(bson.A{"model", "type", "price_per_day"}, bson.M{
		"model":         nonBlank,
		"car_model":     bson.M{"bsonType": "string"},
		"type":          bson.M{"enum": types},
		"price_per_day": bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
		"available":     bson.M{"bsonType": "bool"},
	})
}

func blogPostsSchema() bson.M {
	return jsonSchema(bson.A{"title", "slug", "content"}, bson.M{
		"title":     nonBlank,
		"slug":      bson.M{"bsonType": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
		"content":   bson.M{"bsonType": "string"},
		"published": bson.M{"bsonType": "bool"},
	})
}

func faqsSchema() bson.M {
	return jsonSchema(bson.A{"question", "answer"}, bson.M{
		"question": nonBlank,
		"answer":   nonBlank,
		"order":    bson.M{"bsonType": bson.A{"int", "long"}},
	})
}

func notificationsSchema() bson.M {
	types := bson.A{}
	for _, t := range models.AllNotificationTypes() {
		types = append(types, string(t))
	}
	locs := bson.A{}
	for _, l := range models.AllDisplayLocations() {
		locs = append(locs, l)
	}
	return jsonSchema(bson.A{"title", "message", "start_date", "display_location"}, bson.M{
		"title":      nonBlank,
		"message":    nonBlank,
		"type":       bson.M{"enum": types},
		"start_date": bson.M{"bsonType": "date"},
		"end_date":   bson.M{"bsonType": bson.A{"date", "null"}},
		"priority": bson.M{
			"bsonType": bson.A{"int", "long"},
			"minimum":  models.MinNotificationPriority,
			"maximum":  models.MaxNotificationPriority,
		},
		"display_location": bson.M{
			"bsonType": "array",
			"minItems": 1,
			"items":    bson.M{"enum": locs},
		},
	})
}

func bookingsSchema() bson.M {
	statuses := bson.A{
		string(models.BookingPending),
		string(models.BookingConfirmed),
		string(models.BookingCancelled),
		string(models.BookingCompleted),
	}
	return jsonSchema(bson.A{"car_id", "customer_name", "pickup_date", "return_date", "status"}, bson.M{
		"car_id":        bson.M{"bsonType": "objectId"},
		"customer_name": nonBlank,
		"pickup_date":   bson.M{"bsonType": "date"},
		"return_date":   bson.M{"bsonType": "date"},
		"status":        bson.M{"enum": statuses},
	})
}
