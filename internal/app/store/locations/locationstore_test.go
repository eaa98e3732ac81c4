package locationstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_CreateListGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Location{Name: "Porto Airport", City: "Porto", Active: true, Order: 2}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, models.Location{Name: "Lisbon Centre", City: "Lisbon", Active: true, Order: 1}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, models.Location{Name: "Faro", Active: false}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	active, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(active) != 2 || active[0].Slug != "lisbon-centre" || active[1].Slug != "porto-airport" {
		t.Errorf("List(active) = %+v", active)
	}

	got, err := store.GetBySlug(ctx, "porto-airport")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if got.City != "Porto" {
		t.Errorf("City = %q", got.City)
	}
	if _, err := store.GetBySlug(ctx, "faro"); !errors.Is(err, ErrNotFound) {
		t.Errorf("inactive GetBySlug error = %v, want ErrNotFound", err)
	}
}

func TestStore_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, models.Location{Name: "Braga", Active: true})
	b, _ := store.Create(ctx, models.Location{Name: "Coimbra", Active: true})
	if a == nil || b == nil {
		t.Fatal("setup failed")
	}

	if _, err := store.Create(ctx, models.Location{Name: "BRAGA"}); !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("Create(dup) error = %v, want ErrDuplicateSlug", err)
	}
	if _, err := store.Update(ctx, b.ID, bson.M{"slug": "Braga"}); !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("Update(dup) error = %v, want ErrDuplicateSlug", err)
	}
}
