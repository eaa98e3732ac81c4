package menustore

import (
	"errors"
	"testing"

	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Tree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cars, _ := store.Create(ctx, CreateInput{Label: "Cars", URL: "/cars", Order: 1, Active: true, Placement: models.PlacementHeader})
	_, _ = store.Create(ctx, CreateInput{Label: "Home", URL: "/", Order: 0, Active: true, Placement: models.PlacementBoth})
	_, _ = store.Create(ctx, CreateInput{Label: "SUVs", URL: "/cars?type=suv", Active: true, Placement: models.PlacementHeader, ParentID: &cars.ID})
	_, _ = store.Create(ctx, CreateInput{Label: "Terms", URL: "/terms", Active: true, Placement: models.PlacementFooter})
	_, _ = store.Create(ctx, CreateInput{Label: "Hidden", URL: "/x", Active: false, Placement: models.PlacementHeader})

	tree, err := store.Tree(ctx, models.PlacementHeader)
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if len(tree) != 2 || tree[0].Label != "Home" || tree[1].Label != "Cars" {
		t.Fatalf("header roots = %+v", tree)
	}
	if len(tree[1].Children) != 1 || tree[1].Children[0].Label != "SUVs" {
		t.Errorf("Cars children = %+v", tree[1].Children)
	}

	footer, _ := store.Tree(ctx, models.PlacementFooter)
	if len(footer) != 2 {
		t.Errorf("footer roots = %d, want 2", len(footer))
	}
}

func TestStore_Create_MissingParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ghost := primitive.NewObjectID()
	_, err := store.Create(ctx, CreateInput{Label: "Orphan", URL: "/o", ParentID: &ghost})
	if !errors.Is(err, ErrParentNotFound) {
		t.Errorf("Create() error = %v, want ErrParentNotFound", err)
	}
}

func TestStore_Update_RejectsCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, CreateInput{Label: "A", URL: "/a", Active: true})
	b, _ := store.Create(ctx, CreateInput{Label: "B", URL: "/b", Active: true, ParentID: &a.ID})
	c, _ := store.Create(ctx, CreateInput{Label: "C", URL: "/c", Active: true, ParentID: &b.ID})

	if _, err := store.Update(ctx, a.ID, UpdateInput{ParentID: &c.ID}); !errors.Is(err, ErrCycle) {
		t.Errorf("Update(a under c) error = %v, want ErrCycle", err)
	}
	if _, err := store.Update(ctx, a.ID, UpdateInput{ParentID: &a.ID}); !errors.Is(err, ErrCycle) {
		t.Errorf("Update(a under a) error = %v, want ErrCycle", err)
	}
	up, err := store.Update(ctx, c.ID, UpdateInput{ParentID: &a.ID})
	if err != nil {
		t.Fatalf("Update(c under a) error = %v", err)
	}
	if up.ParentID == nil || *up.ParentID != a.ID {
		t.Errorf("ParentID = %v, want %v", up.ParentID, a.ID)
	}
}

func TestStore_Delete_LiftsChildren(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	parent, _ := store.Create(ctx, CreateInput{Label: "P", URL: "/p", Active: true})
	child, _ := store.Create(ctx, CreateInput{Label: "C", URL: "/c", Active: true, ParentID: &parent.ID})

	if err := store.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := store.GetByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ParentID != nil {
		t.Errorf("child ParentID = %v, want nil", got.ParentID)
	}
	if err := store.Delete(ctx, parent.ID); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}
