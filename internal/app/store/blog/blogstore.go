// internal/app/store/blog/blogstore.go
package blogstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratarent/internal/app/system/indexes"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a post id or slug does not resolve.
	ErrNotFound = apperr.NotFound("Blog post")
	// ErrDuplicateSlug is returned when another post already uses the slug.
	ErrDuplicateSlug = apperr.Conflict("A post with this slug already exists")
	// ErrEmptySlug is returned when neither slug nor title yields a slug.
	ErrEmptySlug = apperr.Validation("slug", "Slug is required")
)

// Store provides access to the blog_posts collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new blog store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("blog_posts")}
}

// Filter narrows List. Nil fields are not applied.
type Filter struct {
	Published *bool
	Category  string
	Tag       string
	Limit     int64
}

// List returns posts matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.BlogPost, error) {
	filter := bson.M{}
	if f.Published != nil {
		filter["published"] = *f.Published
	}
	if f.Category != "" {
		filter["categories"] = f.Category
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "published_at", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return storeutil.FindAll[models.BlogPost](ctx, s.c, filter, opts)
}

// GetByID retrieves a post by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	return storeutil.FindByID[models.BlogPost](ctx, s.c, id, ErrNotFound)
}

// GetBySlug loads a post and counts the read. When publishedOnly is set a
// draft is reported as not found and its view count is left alone.
func (s *Store) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	filter := bson.M{"slug": normalize.Slug(slug)}
	if publishedOnly {
		filter["published"] = true
	}
	var p models.BlogPost
	err := s.c.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SlugExists reports whether slug is taken by a post other than excludeID.
// A zero excludeID checks against every post.
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": normalize.Slug(slug)}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateInput contains the input for creating a post. An empty Slug is
// derived from Title.
type CreateInput struct {
	Title      string
	Slug       string
	Content    string
	Excerpt    string
	Author     string
	CoverImage string
	Categories []string
	Tags       []string
	Published  bool
	SEO        models.SEOMeta
}

// Create inserts a post. The slug is normalized and checked before insert;
// the unique index still catches a concurrent writer.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.BlogPost, error) {
	slug := in.Slug
	if slug == "" {
		slug = in.Title
	}
	slug = normalize.Slug(slug)
	if slug == "" {
		return nil, ErrEmptySlug
	}
	taken, err := s.SlugExists(ctx, slug, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateSlug
	}

	now := time.Now().UTC()
	p := models.BlogPost{
		ID:         primitive.NewObjectID(),
		Title:      in.Title,
		Slug:       slug,
		Content:    htmlsanitize.Sanitize(in.Content),
		Excerpt:    in.Excerpt,
		Author:     in.Author,
		CoverImage: in.CoverImage,
		Categories: nonNil(in.Categories),
		Tags:       nonNil(in.Tags),
		Published:  in.Published,
		SEO:        in.SEO,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.Published {
		p.PublishedAt = &now
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if indexes.IsDuplicateKeyErr(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	return &p, nil
}

// UpdateInput holds the fields to change. Nil fields are left as stored.
type UpdateInput struct {
	Title      *string
	Slug       *string
	Content    *string
	Excerpt    *string
	Author     *string
	CoverImage *string
	Categories []string
	Tags       []string
	Published  *bool
	SEO        *models.SEOMeta
}

// Update applies the supplied fields. published_at is stamped the first time
// a post is published and kept on later edits.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.BlogPost, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.Slug != nil {
		slug := normalize.Slug(*in.Slug)
		if slug == "" {
			return nil, ErrEmptySlug
		}
		if slug != cur.Slug {
			taken, err := s.SlugExists(ctx, slug, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrDuplicateSlug
			}
		}
		set["slug"] = slug
	}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Content != nil {
		set["content"] = htmlsanitize.Sanitize(*in.Content)
	}
	if in.Excerpt != nil {
		set["excerpt"] = *in.Excerpt
	}
	if in.Author != nil {
		set["author"] = *in.Author
	}
	if in.CoverImage != nil {
		set["cover_image"] = *in.CoverImage
	}
	if in.Categories != nil {
		set["categories"] = in.Categories
	}
	if in.Tags != nil {
		set["tags"] = in.Tags
	}
	if in.SEO != nil {
		set["seo"] = *in.SEO
	}
	if in.Published != nil {
		set["published"] = *in.Published
		if *in.Published && cur.PublishedAt == nil {
			set["published_at"] = time.Now().UTC()
		}
	}
	return storeutil.SetByID[models.BlogPost](ctx, s.c, id, set, ErrNotFound, ErrDuplicateSlug)
}

// Delete removes a post. Deleting a missing post succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return storeutil.DeleteByID(ctx, s.c, id)
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
