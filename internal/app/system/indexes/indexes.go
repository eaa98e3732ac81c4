// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
}

// desired lists every index the application relies on. Slug and email
// uniqueness is enforced here; write paths treat a duplicate key as a 409.
var desired = []collectionIndexes{
	{"users", []mongo.IndexModel{
		uniq("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
		idx("idx_users_role_status", bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}),
	}},
	{"cars", []mongo.IndexModel{
		idx("idx_cars_type_available", bson.D{{Key: "type", Value: 1}, {Key: "available", Value: 1}}),
		idx("idx_cars_featured_created", bson.D{{Key: "featured", Value: 1}, {Key: "created_at", Value: -1}}),
		idx("idx_cars_created", bson.D{{Key: "created_at", Value: -1}}),
	}},
	{"blog_posts", []mongo.IndexModel{
		uniq("uniq_blog_posts_slug", bson.D{{Key: "slug", Value: 1}}),
		idx("idx_blog_posts_published", bson.D{{Key: "published", Value: 1}, {Key: "published_at", Value: -1}}),
		idx("idx_blog_posts_categories", bson.D{{Key: "categories", Value: 1}}),
		idx("idx_blog_posts_tags", bson.D{{Key: "tags", Value: 1}}),
	}},
	{"faqs", []mongo.IndexModel{
		idx("idx_faqs_active_order", bson.D{{Key: "active", Value: 1}, {Key: "order", Value: 1}, {Key: "_id", Value: 1}}),
	}},
	{"notifications", []mongo.IndexModel{
		// Serves the active-notification selection: equality, then sort keys.
		idx("idx_notifications_selection", bson.D{
			{Key: "active", Value: 1},
			{Key: "display_location", Value: 1},
			{Key: "priority", Value: -1},
			{Key: "created_at", Value: -1},
		}),
		idx("idx_notifications_window", bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}),
	}},
	{"bookings", []mongo.IndexModel{
		idx("idx_bookings_car", bson.D{{Key: "car_id", Value: 1}, {Key: "pickup_date", Value: 1}}),
		idx("idx_bookings_status_pickup", bson.D{{Key: "status", Value: 1}, {Key: "pickup_date", Value: 1}}),
		idx("idx_bookings_status_return", bson.D{{Key: "status", Value: 1}, {Key: "return_date", Value: 1}}),
		idx("idx_bookings_created", bson.D{{Key: "created_at", Value: -1}}),
	}},
	{"locations", []mongo.IndexModel{
		uniq("uniq_locations_slug", bson.D{{Key: "slug", Value: 1}}),
		idx("idx_locations_active_order", bson.D{{Key: "active", Value: 1}, {Key: "order", Value: 1}}),
	}},
	{"services", []mongo.IndexModel{
		uniq("uniq_services_slug", bson.D{{Key: "slug", Value: 1}}),
		idx("idx_services_active_order", bson.D{{Key: "active", Value: 1}, {Key: "order", Value: 1}}),
	}},
	{"subscribers", []mongo.IndexModel{
		uniq("uniq_subscribers_email", bson.D{{Key: "email", Value: 1}}),
		idx("idx_subscribers_status_created", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
	}},
	{"menus", []mongo.IndexModel{
		idx("idx_menus_placement_order", bson.D{{Key: "placement", Value: 1}, {Key: "active", Value: 1}, {Key: "order", Value: 1}}),
		idx("idx_menus_parent", bson.D{{Key: "parent_id", Value: 1}}),
	}},
	{"seo_settings", []mongo.IndexModel{
		uniq("uniq_seo_settings_singleton", bson.D{{Key: "singleton", Value: 1}}),
	}},
	{"pages", []mongo.IndexModel{
		uniq("uniq_pages_slug", bson.D{{Key: "slug", Value: 1}}),
	}},
	{"audit_logs", []mongo.IndexModel{
		idx("idx_audit_created", bson.D{{Key: "created_at", Value: -1}}),
		idx("idx_audit_category_created", bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}),
		idx("idx_audit_actor_created", bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}}),
	}},
	{"login_attempts", []mongo.IndexModel{
		uniq("uniq_login_attempts_email", bson.D{{Key: "email", Value: 1}}),
		{
			Keys:    bson.D{{Key: "last_attempt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(86400).SetName("idx_login_attempts_ttl"),
		},
	}},
}

/*
EnsureAll is called at startup. Reconciliation is idempotent. Errors are
aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, ci := range desired {
		if err := ensureIndexSet(ctx, db.Collection(ci.collection), ci.models); err != nil {
			problems = append(problems, ci.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Collections returns the names of every collection with managed indexes.
func Collections() []string {
	out := make([]string, 0, len(desired))
	for _, ci := range desired {
		out = append(out, ci.collection)
	}
	return out
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// IsDuplicateKeyErr reports an E11000 error from a write or command.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func existingBySig(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet; everything will be created.
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(ix.Key)] = ix
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := existingBySig(ctx, coll)

	for _, m := range models {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
		}

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == unique {
				zap.L().Debug("reusing existing index", fields...)
				continue
			}
			// Uniqueness changed: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			if IsDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present)", name))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		zap.L().Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
