// Package testutil holds the shared helpers for store and handler tests: a
// throwaway MongoDB database per test and request builders with an injected
// principal.
package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDBURI is the server the Mongo-backed tests use.
// STRATARENT_TEST_MONGO_URI overrides it.
var TestDBURI = func() string {
	if v := os.Getenv("STRATARENT_TEST_MONGO_URI"); v != "" {
		return v
	}
	return "mongodb://localhost:27017"
}()

// TestDBName prefixes every per-test database.
const TestDBName = "stratarent_test"

// maxDBName is MongoDB's database name limit.
const maxDBName = 63

// The client is shared by every test in the package binary. A failed dial is
// remembered so the remaining tests skip immediately.
var shared struct {
	once   sync.Once
	client *mongo.Client
	err    error
}

func sharedClient() (*mongo.Client, error) {
	shared.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(TestDBURI).
			SetMaxPoolSize(200).
			SetMaxConnIdleTime(30 * time.Second).
			SetConnectTimeout(3 * time.Second).
			SetServerSelectionTimeout(3 * time.Second)

		cl, err := mongo.Connect(ctx, opts)
		if err == nil {
			err = cl.Ping(ctx, nil)
		}
		shared.client, shared.err = cl, err
	})
	return shared.client, shared.err
}

// SetupTestDB returns an empty database named after the test, with the
// production indexes in place, and drops it when the test ends. The test is
// skipped in -short mode or when no server answers at TestDBURI.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping MongoDB-backed test in -short mode")
	}
	cl, err := sharedClient()
	if err != nil {
		t.Skipf("MongoDB not reachable at %s: %v", TestDBURI, err)
	}

	db := cl.Database(DBNameFor(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database on cleanup: %v", err)
		}
	})
	return db
}

// DBNameFor maps a test name to a valid database name. Long names are cut
// and suffixed with a hash of the full name, so subtests that share a long
// prefix still get distinct databases.
func DBNameFor(testName string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, testName)

	name := TestDBName + "_" + clean
	if len(name) <= maxDBName {
		return name
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(testName))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	return name[:maxDBName-len(suffix)] + suffix
}

// TestContext returns a context with a timeout suited to test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
