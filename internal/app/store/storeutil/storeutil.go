// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	sk := (page - 1) * limit
	return options.Find().SetLimit(limit).SetSkip(sk)
}

// FindAll runs a find and decodes every document. The result is never nil,
// so an empty match serializes as [].
func FindAll[T any](ctx context.Context, c *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// FindByID loads one document, returning notFound when there is none.
func FindByID[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID, notFound error) (*T, error) {
	var v T
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	return &v, nil
}

// SetByID applies a partial $set (stamping updated_at) and returns the
// document as it is after the update. notFound is returned when id does not
// resolve; duplicate is returned on a unique index violation.
func SetByID[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID, set bson.M, notFound, duplicate error) (*T, error) {
	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now().UTC()

	var v T
	err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	switch {
	case err == nil:
		return &v, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, notFound
	case duplicate != nil && indexes.IsDuplicateKeyErr(err):
		return nil, duplicate
	default:
		return nil, err
	}
}

// DeleteByID removes a document. A missing id is not an error.
func DeleteByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) error {
	_, err := c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SortOrderThenID is the ascending display order used by ordered lists;
// equal orders fall back to _id, i.e. insertion order.
func SortOrderThenID() bson.D {
	return bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}
}

// NewestFirst sorts by creation time descending.
func NewestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}
