package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptrID(id primitive.ObjectID) *primitive.ObjectID { return &id }

func TestBuildMenuTree(t *testing.T) {
	home := Menu{ID: primitive.NewObjectID(), Label: "Home", Order: 0}
	cars := Menu{ID: primitive.NewObjectID(), Label: "Cars", Order: 1}
	suv := Menu{ID: primitive.NewObjectID(), Label: "SUV", Order: 1, ParentID: ptrID(cars.ID)}
	eco := Menu{ID: primitive.NewObjectID(), Label: "Economy", Order: 0, ParentID: ptrID(cars.ID)}
	orphan := Menu{ID: primitive.NewObjectID(), Label: "Orphan", Order: 5, ParentID: ptrID(primitive.NewObjectID())}

	tree := BuildMenuTree([]Menu{suv, cars, orphan, eco, home}, MaxMenuDepth)

	if len(tree) != 3 {
		t.Fatalf("roots = %d, want 3", len(tree))
	}
	if tree[0].Label != "Home" || tree[1].Label != "Cars" || tree[2].Label != "Orphan" {
		t.Errorf("root order = %s,%s,%s", tree[0].Label, tree[1].Label, tree[2].Label)
	}
	kids := tree[1].Children
	if len(kids) != 2 || kids[0].Label != "Economy" || kids[1].Label != "SUV" {
		t.Errorf("children of Cars = %+v", kids)
	}
}

func TestBuildMenuTree_DepthBoundStopsCycles(t *testing.T) {
	a := Menu{ID: primitive.NewObjectID(), Label: "A"}
	b := Menu{ID: primitive.NewObjectID(), Label: "B"}
	a.ParentID = ptrID(b.ID)
	b.ParentID = ptrID(a.ID)
	root := Menu{ID: primitive.NewObjectID(), Label: "Root"}

	done := make(chan []MenuNode, 1)
	go func() { done <- BuildMenuTree([]Menu{a, b, root}, 3) }()

	select {
	case tree := <-done:
		// a and b only reference each other, so neither is reachable from a root.
		if len(tree) != 1 || tree[0].Label != "Root" {
			t.Errorf("tree = %+v, want only Root", tree)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BuildMenuTree did not terminate on a cycle")
	}
}

func TestCreatesMenuCycle(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	parents := map[primitive.ObjectID]*primitive.ObjectID{
		a: nil,
		b: ptrID(a),
		c: ptrID(b),
	}
	parentOf := func(id primitive.ObjectID) *primitive.ObjectID { return parents[id] }

	if !CreatesMenuCycle(a, c, parentOf) {
		t.Error("making c the parent of a should be a cycle")
	}
	if !CreatesMenuCycle(a, a, parentOf) {
		t.Error("self parent should be a cycle")
	}
	if CreatesMenuCycle(c, a, parentOf) {
		t.Error("making a the parent of c is not a cycle")
	}
}
