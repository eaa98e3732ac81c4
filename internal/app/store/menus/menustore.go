// internal/app/store/menus/menustore.go
package menustore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratarent/internal/app/store/storeutil"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/txn"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a menu id does not resolve.
	ErrNotFound = apperr.NotFound("Menu item")
	// ErrParentNotFound is returned when parentId names no menu item.
	ErrParentNotFound = apperr.Validation("parentId", "Parent menu item not found")
	// ErrCycle is returned when a parent change would make an item its own ancestor.
	ErrCycle = apperr.Validation("parentId", "Menu item cannot be nested under itself")
)

// Store provides access to the menus collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new menu store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("menus")}
}

// List returns flat menu items in display order. A non-empty placement keeps
// items shown there (including "both").
func (s *Store) List(ctx context.Context, placement string, activeOnly bool) ([]models.Menu, error) {
	filter := bson.M{}
	if placement != "" {
		filter["placement"] = bson.M{"$in": bson.A{placement, models.PlacementBoth}}
	}
	if activeOnly {
		filter["active"] = true
	}
	return storeutil.FindAll[models.Menu](ctx, s.c, filter, options.Find().SetSort(storeutil.SortOrderThenID()))
}

// Tree returns the active items for placement arranged as a nested forest.
func (s *Store) Tree(ctx context.Context, placement string) ([]models.MenuNode, error) {
	items, err := s.List(ctx, placement, true)
	if err != nil {
		return nil, err
	}
	return models.BuildMenuTree(items, models.MaxMenuDepth), nil
}

// GetByID retrieves a menu item by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Menu, error) {
	return storeutil.FindByID[models.Menu](ctx, s.c, id, ErrNotFound)
}

// CreateInput contains the input for creating a menu item.
type CreateInput struct {
	Label     string
	URL       string
	Target    string
	Order     int
	Active    bool
	Placement string
	ParentID  *primitive.ObjectID
}

// Create inserts a menu item. The parent, when given, must exist.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Menu, error) {
	if in.ParentID != nil {
		if _, err := s.GetByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}
	now := time.Now().UTC()
	m := models.Menu{
		ID:        primitive.NewObjectID(),
		Label:     in.Label,
		URL:       in.URL,
		Target:    in.Target,
		Order:     in.Order,
		Active:    in.Active,
		Placement: in.Placement,
		ParentID:  in.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if m.Target == "" {
		m.Target = models.TargetSelf
	}
	if m.Placement == "" {
		m.Placement = models.PlacementHeader
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateInput holds the fields to change. Nil fields are left as stored.
// ClearParent moves the item to the top level.
type UpdateInput struct {
	Label       *string
	URL         *string
	Target      *string
	Order       *int
	Active      *bool
	Placement   *string
	ParentID    *primitive.ObjectID
	ClearParent bool
}

// Update applies the supplied fields. A new parent must exist and must not
// be the item itself or one of its descendants.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Menu, error) {
	set := bson.M{}
	switch {
	case in.ClearParent:
		set["parent_id"] = nil
	case in.ParentID != nil:
		if err := s.checkParent(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
		set["parent_id"] = *in.ParentID
	}
	if in.Label != nil {
		set["label"] = *in.Label
	}
	if in.URL != nil {
		set["url"] = *in.URL
	}
	if in.Target != nil {
		set["target"] = *in.Target
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}
	if in.Active != nil {
		set["active"] = *in.Active
	}
	if in.Placement != nil {
		set["placement"] = *in.Placement
	}
	return storeutil.SetByID[models.Menu](ctx, s.c, id, set, ErrNotFound, nil)
}

func (s *Store) checkParent(ctx context.Context, id, parent primitive.ObjectID) error {
	all, err := s.List(ctx, "", false)
	if err != nil {
		return err
	}
	parents := make(map[primitive.ObjectID]*primitive.ObjectID, len(all))
	for _, m := range all {
		parents[m.ID] = m.ParentID
	}
	if _, ok := parents[parent]; !ok {
		return ErrParentNotFound
	}
	if models.CreatesMenuCycle(id, parent, func(x primitive.ObjectID) *primitive.ObjectID { return parents[x] }) {
		return ErrCycle
	}
	return nil
}

// Delete removes a menu item and lifts its children to the top level, in one
// transaction where the deployment allows it. Deleting a missing item
// succeeds.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return txn.Run(ctx, s.c.Database(), nil, func(ctx context.Context) error {
		if _, err := s.c.UpdateMany(ctx,
			bson.M{"parent_id": id},
			bson.M{"$set": bson.M{"parent_id": nil, "updated_at": time.Now().UTC()}},
		); err != nil {
			return err
		}
		return storeutil.DeleteByID(ctx, s.c, id)
	})
}
