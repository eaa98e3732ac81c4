package indexes

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKeySig(t *testing.T) {
	got := keySig(bson.D{{Key: "active", Value: 1}, {Key: "priority", Value: -1}})
	if got != "active:1, priority:-1" {
		t.Errorf("keySig() = %q", got)
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	if !IsDuplicateKeyErr(dup) {
		t.Error("write exception with code 11000 should be a duplicate")
	}
	if !IsDuplicateKeyErr(mongo.CommandError{Code: 11000}) {
		t.Error("command error with code 11000 should be a duplicate")
	}
	if IsDuplicateKeyErr(errors.New("timeout")) {
		t.Error("plain error is not a duplicate")
	}
	if IsDuplicateKeyErr(nil) {
		t.Error("nil is not a duplicate")
	}
}

func TestDesired_SlugCollectionsAreUnique(t *testing.T) {
	want := map[string]bool{"blog_posts": false, "locations": false, "services": false, "pages": false}
	for _, ci := range desired {
		if _, ok := want[ci.collection]; !ok {
			continue
		}
		for _, m := range ci.models {
			if keySig(m.Keys.(bson.D)) == "slug:1" && isUnique(m.Options.Unique) {
				want[ci.collection] = true
			}
		}
	}
	for coll, ok := range want {
		if !ok {
			t.Errorf("%s has no unique slug index", coll)
		}
	}
}

func TestDesired_NamesAreSet(t *testing.T) {
	seen := map[string]bool{}
	for _, ci := range desired {
		for _, m := range ci.models {
			if m.Options == nil || m.Options.Name == nil {
				t.Fatalf("%s: index without a name", ci.collection)
			}
			if seen[*m.Options.Name] {
				t.Errorf("duplicate index name %q", *m.Options.Name)
			}
			seen[*m.Options.Name] = true
		}
	}
}
